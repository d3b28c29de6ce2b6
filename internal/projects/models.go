package projects

import (
	"time"

	"github.com/google/uuid"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

const (
	codeDepartment = "PRJ"
	codeType       = "PROJ"
)

const (
	StatusOngoing   workflows.Status = "En cours"
	StatusFinished  workflows.Status = "Terminé"
	StatusPaused    workflows.Status = "En pause"
	StatusCancelled workflows.Status = "Annulé"
)

// NewLifecycle builds the project state machine: an ongoing project can be
// paused, finished or cancelled, a paused one resumed or cancelled. Finished
// and cancelled projects stay where they are.
func NewLifecycle() *workflows.StateMachine {
	return workflows.NewStateMachine(map[workflows.Status][]workflows.Status{
		StatusOngoing:   {StatusPaused, StatusFinished, StatusCancelled},
		StatusPaused:    {StatusOngoing, StatusCancelled},
		StatusFinished:  {},
		StatusCancelled: {},
	})
}

type Project struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Code        string           `db:"code" json:"code"`
	Intitule    string           `db:"intitule" json:"intitule"`
	Client      string           `db:"client" json:"client"`
	ChefProjet  string           `db:"chef_projet" json:"chef_projet"`
	DateDebut   time.Time        `db:"date_debut" json:"date_debut"`
	DateFin     *time.Time       `db:"date_fin" json:"date_fin,omitempty"`
	Progression int              `db:"progression" json:"progression"`
	Statut      workflows.Status `db:"statut" json:"statut"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
