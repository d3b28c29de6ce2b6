package engineering

import (
	"time"

	"github.com/google/uuid"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

const (
	codeDepartment = "ENG"
	codeType       = "INT"
)

const (
	StatusPlanned  workflows.Status = "Planifiée"
	StatusOngoing  workflows.Status = "En cours"
	StatusFinished workflows.Status = "Terminée"
)

// NewLifecycle builds the intervention state machine: planned work starts,
// started work finishes, finished work stays finished.
func NewLifecycle() *workflows.StateMachine {
	return workflows.NewStateMachine(map[workflows.Status][]workflows.Status{
		StatusPlanned:  {StatusOngoing},
		StatusOngoing:  {StatusFinished},
		StatusFinished: {},
	})
}

type InterventionType string

const (
	TypeInstallation InterventionType = "Installation"
	TypeMaintenance  InterventionType = "Maintenance"
	TypeAudit        InterventionType = "Audit"
	TypeOther        InterventionType = "Autre"
)

// Intervention is a field operation carried out for a client site.
type Intervention struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	Code       string           `db:"code" json:"code"`
	Client     string           `db:"client" json:"client"`
	Site       string           `db:"site" json:"site"`
	Technicien string           `db:"technicien" json:"technicien"`
	Date       time.Time        `db:"date" json:"date"`
	Type       InterventionType `db:"type" json:"type"`
	Statut     workflows.Status `db:"statut" json:"statut"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}
