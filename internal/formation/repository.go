package formation

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
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	CreateSession(ctx context.Context, s *TrainingSession) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (*TrainingSession, error)
	ListSessions(ctx context.Context, filter Filter) ([]TrainingSession, int, error)
	UpdateSession(ctx context.Context, s *TrainingSession) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	SetSessionStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*TrainingSession, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateSession(ctx context.Context, s *TrainingSession) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	code, err := codes.NewGenerator(codes.NewSQLSequencer(tx)).NextCode(ctx, codeDepartment, codeType)
	if err != nil {
		return err
	}
	s.Code = code

	query := `
		INSERT INTO training_sessions (
			id, code, titre, formateur, date, participants, duree, statut
		) VALUES (
			:id, :code, :titre, :formateur, :date, :participants, :duree, :statut
		)`
	if _, err := tx.NamedExecContext(ctx, query, s); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*TrainingSession, error) {
	var s TrainingSession
	err := r.db.GetContext(ctx, &s, "SELECT * FROM training_sessions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &s, err
}

func (r *postgresRepository) ListSessions(ctx context.Context, filter Filter) ([]TrainingSession, int, error) {
	where := " WHERE 1=1"
	var args []interface{}
	argCount := 1

	if filter.Statut != nil {
		where += fmt.Sprintf(" AND statut = $%d", argCount)
		args = append(args, *filter.Statut)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (titre ILIKE $%d OR code ILIKE $%d OR formateur ILIKE $%d)",
			argCount, argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM training_sessions"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM training_sessions" + where + " ORDER BY date DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	var list []TrainingSession
	err := r.db.SelectContext(ctx, &list, query, args...)
	return list, total, err
}

func (r *postgresRepository) UpdateSession(ctx context.Context, s *TrainingSession) error {
	query := `
		UPDATE training_sessions SET
			titre = :titre,
			formateur = :formateur,
			date = :date,
			participants = :participants,
			duree = :duree,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, s)
	return err
}

func (r *postgresRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM training_sessions WHERE id = $1", id)
	return err
}

func (r *postgresRepository) SetSessionStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*TrainingSession, error) {
	var s TrainingSession
	query := `
		UPDATE training_sessions
		SET statut = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`
	err := r.db.GetContext(ctx, &s, query, statut, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &s, err
}
