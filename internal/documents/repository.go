package documents

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"visio-hr/hr-portal-backend/internal/codes"
)

const codeDepartment = "DOC"

// Filter narrows document listings.
type Filter struct {
	Type        *DocumentType
	Departement *string
	Search      string
	Limit       int
	Offset      int
}

type Repository interface {
	CreateDocument(ctx context.Context, d *Document) error
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, filter Filter) ([]Document, int, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateDocument allocates the document code and inserts the metadata row in
// one transaction; a failed insert rolls the counter reservation back too.
func (r *postgresRepository) CreateDocument(ctx context.Context, d *Document) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	code, err := codes.NewGenerator(codes.NewSQLSequencer(tx)).NextCode(ctx, codeDepartment, codeScope(d.Type))
	if err != nil {
		return err
	}
	d.Code = code

	query := `
		INSERT INTO documents (
			id, code, nom, type, departement, file_name, content_type, taille, storage_key, uploaded_by
		) VALUES (
			:id, :code, :nom, :type, :departement, :file_name, :content_type, :taille, :storage_key, :uploaded_by
		)`
	if _, err := tx.NamedExecContext(ctx, query, d); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	var d Document
	err := r.db.GetContext(ctx, &d, "SELECT * FROM documents WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &d, err
}

func (r *postgresRepository) ListDocuments(ctx context.Context, filter Filter) ([]Document, int, error) {
	where := " WHERE 1=1"
	var args []interface{}
	argCount := 1

	if filter.Type != nil {
		where += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, *filter.Type)
		argCount++
	}
	if filter.Departement != nil {
		where += fmt.Sprintf(" AND departement = $%d", argCount)
		args = append(args, *filter.Departement)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (nom ILIKE $%d OR code ILIKE $%d OR file_name ILIKE $%d)",
			argCount, argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM documents" + where + " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	var docs []Document
	err := r.db.SelectContext(ctx, &docs, query, args...)
	return docs, total, err
}

func (r *postgresRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	return err
}
