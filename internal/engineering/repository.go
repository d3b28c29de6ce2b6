package engineering

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
	Type   *InterventionType
	Client *string
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	CreateIntervention(ctx context.Context, i *Intervention) error
	GetInterventionByID(ctx context.Context, id uuid.UUID) (*Intervention, error)
	ListInterventions(ctx context.Context, filter Filter) ([]Intervention, int, error)
	UpdateIntervention(ctx context.Context, i *Intervention) error
	DeleteIntervention(ctx context.Context, id uuid.UUID) error
	SetInterventionStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Intervention, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateIntervention(ctx context.Context, i *Intervention) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	code, err := codes.NewGenerator(codes.NewSQLSequencer(tx)).NextCode(ctx, codeDepartment, codeType)
	if err != nil {
		return err
	}
	i.Code = code

	query := `
		INSERT INTO interventions (
			id, code, client, site, technicien, date, type, statut
		) VALUES (
			:id, :code, :client, :site, :technicien, :date, :type, :statut
		)`
	if _, err := tx.NamedExecContext(ctx, query, i); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) GetInterventionByID(ctx context.Context, id uuid.UUID) (*Intervention, error) {
	var i Intervention
	err := r.db.GetContext(ctx, &i, "SELECT * FROM interventions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &i, err
}

func (r *postgresRepository) ListInterventions(ctx context.Context, filter Filter) ([]Intervention, int, error) {
	where := " WHERE 1=1"
	var args []interface{}
	argCount := 1

	if filter.Statut != nil {
		where += fmt.Sprintf(" AND statut = $%d", argCount)
		args = append(args, *filter.Statut)
		argCount++
	}
	if filter.Type != nil {
		where += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, *filter.Type)
		argCount++
	}
	if filter.Client != nil {
		where += fmt.Sprintf(" AND client = $%d", argCount)
		args = append(args, *filter.Client)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (code ILIKE $%d OR site ILIKE $%d OR technicien ILIKE $%d)",
			argCount, argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM interventions"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM interventions" + where + " ORDER BY date DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	var list []Intervention
	err := r.db.SelectContext(ctx, &list, query, args...)
	return list, total, err
}

func (r *postgresRepository) UpdateIntervention(ctx context.Context, i *Intervention) error {
	query := `
		UPDATE interventions SET
			client = :client,
			site = :site,
			technicien = :technicien,
			date = :date,
			type = :type,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, i)
	return err
}

func (r *postgresRepository) DeleteIntervention(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM interventions WHERE id = $1", id)
	return err
}

func (r *postgresRepository) SetInterventionStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Intervention, error) {
	var i Intervention
	query := `
		UPDATE interventions
		SET statut = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`
	err := r.db.GetContext(ctx, &i, query, statut, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &i, err
}
