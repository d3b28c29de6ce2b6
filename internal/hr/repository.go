package hr

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"visio-hr/hr-portal-backend/internal/codes"
	"visio-hr/hr-portal-backend/pkg/workflows"
)

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	Statut      *EmployeeStatus
	Departement *string
	Poste       *string
	Search      string
	Limit       int
	Offset      int
}

// RecordFilter narrows workflow-record listings (time records, leaves,
// authorizations, expenses).
type RecordFilter struct {
	Statut     *workflows.Status
	Type       *string
	EmployeeID *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

type Repository interface {
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployeeByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error)
	UpdateEmployee(ctx context.Context, e *Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	GetEmployeeStats(ctx context.Context) (*EmployeeStats, error)

	CreateTimeRecord(ctx context.Context, tr *TimeRecord) error
	GetTimeRecordByID(ctx context.Context, id uuid.UUID) (*TimeRecord, error)
	ListTimeRecords(ctx context.Context, filter RecordFilter) ([]TimeRecord, int, error)
	UpdateTimeRecord(ctx context.Context, tr *TimeRecord) error
	DeleteTimeRecord(ctx context.Context, id uuid.UUID) error
	SetTimeRecordOvertime(ctx context.Context, id uuid.UUID, hsValide bool, statut workflows.Status) (*TimeRecord, error)

	CreateLeaveRequest(ctx context.Context, lr *LeaveRequest) error
	GetLeaveRequestByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, filter RecordFilter) ([]LeaveRequest, int, error)
	UpdateLeaveRequest(ctx context.Context, lr *LeaveRequest) error
	DeleteLeaveRequest(ctx context.Context, id uuid.UUID) error
	SetLeaveRequestStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*LeaveRequest, error)

	CreateAuthorization(ctx context.Context, a *Authorization) error
	GetAuthorizationByID(ctx context.Context, id uuid.UUID) (*Authorization, error)
	ListAuthorizations(ctx context.Context, filter RecordFilter) ([]Authorization, int, error)
	UpdateAuthorization(ctx context.Context, a *Authorization) error
	DeleteAuthorization(ctx context.Context, id uuid.UUID) error
	SetAuthorizationStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Authorization, error)

	CreateExpenseReport(ctx context.Context, er *ExpenseReport) error
	GetExpenseReportByID(ctx context.Context, id uuid.UUID) (*ExpenseReport, error)
	ListExpenseReports(ctx context.Context, filter RecordFilter) ([]ExpenseReport, int, error)
	UpdateExpenseReport(ctx context.Context, er *ExpenseReport) error
	DeleteExpenseReport(ctx context.Context, id uuid.UUID) error
	SetExpenseReportStatus(ctx context.Context, id uuid.UUID, statut workflows.Status, montant *float64) (*ExpenseReport, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// withCode runs fn inside a transaction after allocating a document code in
// the same transaction, so a failed insert rolls the counter reservation back
// with it and the record is never persisted without its code.
func (r *postgresRepository) withCode(ctx context.Context, department, docType string, fn func(tx *sqlx.Tx, code string) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	code, err := codes.NewGenerator(codes.NewSQLSequencer(tx)).NextCode(ctx, department, docType)
	if err != nil {
		return err
	}

	if err := fn(tx, code); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Employees

func (r *postgresRepository) CreateEmployee(ctx context.Context, e *Employee) error {
	return r.withCode(ctx, codeDeptEmployee, codeTypeEmployee, func(tx *sqlx.Tx, code string) error {
		e.Code = code
		query := `
			INSERT INTO employees (
				id, code, nom, prenom, email, poste, departement, date_embauche, salaire, statut
			) VALUES (
				:id, :code, :nom, :prenom, :email, :poste, :departement, :date_embauche, :salaire, :statut
			)`
		_, err := tx.NamedExecContext(ctx, query, e)
		return err
	})
}

func (r *postgresRepository) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var e Employee
	err := r.db.GetContext(ctx, &e, "SELECT * FROM employees WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &e, err
}

func (r *postgresRepository) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	where := " WHERE 1=1"
	var args []interface{}
	argCount := 1

	if filter.Statut != nil {
		where += fmt.Sprintf(" AND statut = $%d", argCount)
		args = append(args, *filter.Statut)
		argCount++
	}
	if filter.Departement != nil {
		where += fmt.Sprintf(" AND departement = $%d", argCount)
		args = append(args, *filter.Departement)
		argCount++
	}
	if filter.Poste != nil {
		where += fmt.Sprintf(" AND poste = $%d", argCount)
		args = append(args, *filter.Poste)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (nom ILIKE $%d OR prenom ILIKE $%d OR email ILIKE $%d OR code ILIKE $%d)",
			argCount, argCount, argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM employees"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM employees" + where + " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	var employees []Employee
	err := r.db.SelectContext(ctx, &employees, query, args...)
	return employees, total, err
}

func (r *postgresRepository) UpdateEmployee(ctx context.Context, e *Employee) error {
	query := `
		UPDATE employees SET
			nom = :nom,
			prenom = :prenom,
			email = :email,
			poste = :poste,
			departement = :departement,
			date_embauche = :date_embauche,
			salaire = :salaire,
			statut = :statut,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, e)
	return err
}

func (r *postgresRepository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id)
	return err
}

func (r *postgresRepository) GetEmployeeStats(ctx context.Context) (*EmployeeStats, error) {
	var stats EmployeeStats
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE statut = 'Actif') AS actif,
			COUNT(*) FILTER (WHERE statut = 'Inactif') AS inactif,
			COUNT(*) FILTER (WHERE statut = 'En congé') AS en_conge
		FROM employees`
	err := r.db.GetContext(ctx, &stats, query)
	return &stats, err
}

// ---------------------------------------------------------------------------
// Time records

func (r *postgresRepository) CreateTimeRecord(ctx context.Context, tr *TimeRecord) error {
	return r.withCode(ctx, codeDeptHR, codeTypeTimeRecord, func(tx *sqlx.Tx, code string) error {
		tr.Code = code
		query := `
			INSERT INTO time_records (
				id, code, employee_id, date, heure_entree, heure_sortie, lieu, heures, type, statut, hs_valide
			) VALUES (
				:id, :code, :employee_id, :date, :heure_entree, :heure_sortie, :lieu, :heures, :type, :statut, :hs_valide
			)`
		_, err := tx.NamedExecContext(ctx, query, tr)
		return err
	})
}

func (r *postgresRepository) GetTimeRecordByID(ctx context.Context, id uuid.UUID) (*TimeRecord, error) {
	var tr TimeRecord
	err := r.db.GetContext(ctx, &tr, "SELECT * FROM time_records WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &tr, err
}

func (r *postgresRepository) ListTimeRecords(ctx context.Context, filter RecordFilter) ([]TimeRecord, int, error) {
	var records []TimeRecord
	total, err := r.listRecords(ctx, "time_records", filter, "date", &records)
	return records, total, err
}

func (r *postgresRepository) UpdateTimeRecord(ctx context.Context, tr *TimeRecord) error {
	query := `
		UPDATE time_records SET
			date = :date,
			heure_entree = :heure_entree,
			heure_sortie = :heure_sortie,
			lieu = :lieu,
			heures = :heures,
			type = :type,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, tr)
	return err
}

func (r *postgresRepository) DeleteTimeRecord(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM time_records WHERE id = $1", id)
	return err
}

func (r *postgresRepository) SetTimeRecordOvertime(ctx context.Context, id uuid.UUID, hsValide bool, statut workflows.Status) (*TimeRecord, error) {
	var tr TimeRecord
	query := `
		UPDATE time_records
		SET hs_valide = $1, statut = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING *`
	err := r.db.GetContext(ctx, &tr, query, hsValide, statut, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &tr, err
}

// ---------------------------------------------------------------------------
// Leave requests

func (r *postgresRepository) CreateLeaveRequest(ctx context.Context, lr *LeaveRequest) error {
	return r.withCode(ctx, codeDeptHR, codeTypeLeave, func(tx *sqlx.Tx, code string) error {
		lr.Code = code
		query := `
			INSERT INTO leave_requests (
				id, code, employee_id, debut, fin, jours, type, motif, statut
			) VALUES (
				:id, :code, :employee_id, :debut, :fin, :jours, :type, :motif, :statut
			)`
		_, err := tx.NamedExecContext(ctx, query, lr)
		return err
	})
}

func (r *postgresRepository) GetLeaveRequestByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.GetContext(ctx, &lr, "SELECT * FROM leave_requests WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &lr, err
}

func (r *postgresRepository) ListLeaveRequests(ctx context.Context, filter RecordFilter) ([]LeaveRequest, int, error) {
	var requests []LeaveRequest
	total, err := r.listRecords(ctx, "leave_requests", filter, "created_at", &requests)
	return requests, total, err
}

func (r *postgresRepository) UpdateLeaveRequest(ctx context.Context, lr *LeaveRequest) error {
	query := `
		UPDATE leave_requests SET
			debut = :debut,
			fin = :fin,
			jours = :jours,
			type = :type,
			motif = :motif,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, lr)
	return err
}

func (r *postgresRepository) DeleteLeaveRequest(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM leave_requests WHERE id = $1", id)
	return err
}

func (r *postgresRepository) SetLeaveRequestStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*LeaveRequest, error) {
	var lr LeaveRequest
	query := `
		UPDATE leave_requests
		SET statut = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`
	err := r.db.GetContext(ctx, &lr, query, statut, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &lr, err
}

// ---------------------------------------------------------------------------
// Authorizations

func (r *postgresRepository) CreateAuthorization(ctx context.Context, a *Authorization) error {
	return r.withCode(ctx, codeDeptHR, codeTypeAuth, func(tx *sqlx.Tx, code string) error {
		a.Code = code
		query := `
			INSERT INTO authorizations (
				id, code, employee_id, date, duree, type, motif, statut
			) VALUES (
				:id, :code, :employee_id, :date, :duree, :type, :motif, :statut
			)`
		_, err := tx.NamedExecContext(ctx, query, a)
		return err
	})
}

func (r *postgresRepository) GetAuthorizationByID(ctx context.Context, id uuid.UUID) (*Authorization, error) {
	var a Authorization
	err := r.db.GetContext(ctx, &a, "SELECT * FROM authorizations WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &a, err
}

func (r *postgresRepository) ListAuthorizations(ctx context.Context, filter RecordFilter) ([]Authorization, int, error) {
	var auths []Authorization
	total, err := r.listRecords(ctx, "authorizations", filter, "created_at", &auths)
	return auths, total, err
}

func (r *postgresRepository) UpdateAuthorization(ctx context.Context, a *Authorization) error {
	query := `
		UPDATE authorizations SET
			date = :date,
			duree = :duree,
			type = :type,
			motif = :motif,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, a)
	return err
}

func (r *postgresRepository) DeleteAuthorization(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM authorizations WHERE id = $1", id)
	return err
}

func (r *postgresRepository) SetAuthorizationStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Authorization, error) {
	var a Authorization
	query := `
		UPDATE authorizations
		SET statut = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`
	err := r.db.GetContext(ctx, &a, query, statut, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &a, err
}

// ---------------------------------------------------------------------------
// Expense reports

func (r *postgresRepository) CreateExpenseReport(ctx context.Context, er *ExpenseReport) error {
	return r.withCode(ctx, codeDeptHR, codeTypeExpense, func(tx *sqlx.Tx, code string) error {
		er.Code = code
		query := `
			INSERT INTO expense_reports (
				id, code, employee_id, date, designation, montant, projet, type, statut
			) VALUES (
				:id, :code, :employee_id, :date, :designation, :montant, :projet, :type, :statut
			)`
		_, err := tx.NamedExecContext(ctx, query, er)
		return err
	})
}

func (r *postgresRepository) GetExpenseReportByID(ctx context.Context, id uuid.UUID) (*ExpenseReport, error) {
	var er ExpenseReport
	err := r.db.GetContext(ctx, &er, "SELECT * FROM expense_reports WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &er, err
}

func (r *postgresRepository) ListExpenseReports(ctx context.Context, filter RecordFilter) ([]ExpenseReport, int, error) {
	var reports []ExpenseReport
	total, err := r.listRecords(ctx, "expense_reports", filter, "created_at", &reports)
	return reports, total, err
}

func (r *postgresRepository) UpdateExpenseReport(ctx context.Context, er *ExpenseReport) error {
	query := `
		UPDATE expense_reports SET
			date = :date,
			designation = :designation,
			montant = :montant,
			projet = :projet,
			type = :type,
			updated_at = NOW()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, er)
	return err
}

func (r *postgresRepository) DeleteExpenseReport(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM expense_reports WHERE id = $1", id)
	return err
}

func (r *postgresRepository) SetExpenseReportStatus(ctx context.Context, id uuid.UUID, statut workflows.Status, montant *float64) (*ExpenseReport, error) {
	var er ExpenseReport
	query := `
		UPDATE expense_reports
		SET statut = $1, montant = COALESCE($2, montant), updated_at = NOW()
		WHERE id = $3
		RETURNING *`
	err := r.db.GetContext(ctx, &er, query, statut, montant, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &er, err
}

// ---------------------------------------------------------------------------

// listRecords pages one of the workflow-record tables. All four share the
// statut/type/employee_id columns; orderBy picks the table's natural ordering.
func (r *postgresRepository) listRecords(ctx context.Context, table string, filter RecordFilter, orderBy string, dest interface{}) (int, error) {
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
	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND employee_id = $%d", argCount)
		args = append(args, *filter.EmployeeID)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND code ILIKE $%d", argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM "+table+where, args...); err != nil {
		return 0, err
	}

	query := "SELECT * FROM " + table + where + " ORDER BY " + orderBy + " DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	return total, r.db.SelectContext(ctx, dest, query, args...)
}
