package projects

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"visio-hr/hr-portal-backend/internal/codes"
	"visio-hr/hr-portal-backend/pkg/workflows"
)

type Filter struct {
	Statut *workflows.Status
	Client *string
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProjectByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, filter Filter) ([]Project, int, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
	SetProjectStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Project, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateProject(ctx context.Context, p *Project) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	code, err := codes.NewGenerator(codes.NewSQLSequencer(tx)).NextCode(ctx, codeDepartment, codeType)
	if err != nil {
		return err
	}
	p.Code = code

	query := `
		INSERT INTO projects (
			id, code, intitule, client, chef_projet, date_debut, date_fin, progression, statut
		) VALUES (
			:id, :code, :intitule, :client, :chef_projet, :date_debut, :date_fin, :progression, :statut
		)`
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) GetProjectByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	err := r.db.GetContext(ctx, &p, "SELECT * FROM projects WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

func (r *postgresRepository) ListProjects(ctx context.Context, filter Filter) ([]Project, int, error) {
	where := " WHERE 1=1"
	var args []interface{}
	argCount := 1

	if filter.Statut != nil {
		where += fmt.Sprintf(" AND statut = $%d", argCount)
		args = append(args, *filter.Statut)
		argCount++
	}
	if filter.Client != nil {
		where += fmt.Sprintf(" AND client = $%d", argCount)
		args = append(args, *filter.Client)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (intitule ILIKE $%d OR code ILIKE $%d OR client ILIKE $%d)",
			argCount, argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM projects"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM projects" + where + " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	var list []Project
	err := r.db.SelectContext(ctx, &list, query, args...)
	return list, total, err
}

func (r *postgresRepository) UpdateProject(ctx context.Context, p *Project) error {
	query := `
		UPDATE projects SET
			intitule = :intitule,
			client = :client,
			chef_projet = :chef_projet,
			date_debut = :date_debut,
			date_fin = :date_fin,
			progression = :progression,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *postgresRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	return err
}

func (r *postgresRepository) SetProjectStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Project, error) {
	var p Project
	query := `
		UPDATE projects
		SET statut = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`
	err := r.db.GetContext(ctx, &p, query, statut, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &p, err
}
