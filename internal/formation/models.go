package formation

import (
	"time"

	"github.com/google/uuid"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

const (
	codeDepartment = "FORM"
	codeType       = "SESS"
)

const (
	StatusPlanned  workflows.Status = "Planifiée"
	StatusOngoing  workflows.Status = "En cours"
	StatusFinished workflows.Status = "Terminée"
)

func NewLifecycle() *workflows.StateMachine {
	return workflows.NewStateMachine(map[workflows.Status][]workflows.Status{
		StatusPlanned:  {StatusOngoing},
		StatusOngoing:  {StatusFinished},
		StatusFinished: {},
	})
}

// TrainingSession is a scheduled training with a headcount and a duration
// label ("2 jours", "8h").
type TrainingSession struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	Code         string           `db:"code" json:"code"`
	Titre        string           `db:"titre" json:"titre"`
	Formateur    string           `db:"formateur" json:"formateur"`
	Date         time.Time        `db:"date" json:"date"`
	Participants int              `db:"participants" json:"participants"`
	Duree        string           `db:"duree" json:"duree"`
	Statut       workflows.Status `db:"statut" json:"statut"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}
