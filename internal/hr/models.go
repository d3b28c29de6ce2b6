package hr

import (
	"time"

	"github.com/google/uuid"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

// Code scopes. Every HR record gets a sequential document code at creation;
// employees carry their own department prefix.
const (
	codeDeptEmployee = "EMP"
	codeDeptHR       = "HR"

	codeTypeEmployee   = "EMPL"
	codeTypeTimeRecord = "TEMPS"
	codeTypeLeave      = "CONGE"
	codeTypeAuth       = "AUTH"
	codeTypeExpense    = "EXP"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Actif"
	EmployeeInactive EmployeeStatus = "Inactif"
	EmployeeOnLeave  EmployeeStatus = "En congé"
)

type Employee struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Code         string         `db:"code" json:"code"`
	Nom          string         `db:"nom" json:"nom"`
	Prenom       string         `db:"prenom" json:"prenom"`
	Email        string         `db:"email" json:"email"`
	Poste        string         `db:"poste" json:"poste"`
	Departement  string         `db:"departement" json:"departement"`
	DateEmbauche time.Time      `db:"date_embauche" json:"date_embauche"`
	Salaire      float64        `db:"salaire" json:"salaire"`
	Statut       EmployeeStatus `db:"statut" json:"statut"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

func (e *Employee) FullName() string {
	return e.Prenom + " " + e.Nom
}

// EmployeeStats is the aggregate returned by the stats endpoint.
type EmployeeStats struct {
	Total   int `db:"total" json:"total"`
	Actif   int `db:"actif" json:"actif"`
	Inactif int `db:"inactif" json:"inactif"`
	EnConge int `db:"en_conge" json:"en_conge"`
}

type TimeRecordType string

const (
	TimeNormal   TimeRecordType = "Normal"
	TimeOvertime TimeRecordType = "Heures supplémentaires"
	TimeRemote   TimeRecordType = "Télétravail"
)

// TimeRecord tracks one worked day. HSValide drives its status: approving the
// overtime forces Validé, withdrawing the approval puts it back to En attente.
type TimeRecord struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Code        string           `db:"code" json:"code"`
	EmployeeID  uuid.UUID        `db:"employee_id" json:"employee_id"`
	Date        time.Time        `db:"date" json:"date"`
	HeureEntree string           `db:"heure_entree" json:"heure_entree"`
	HeureSortie string           `db:"heure_sortie" json:"heure_sortie"`
	Lieu        string           `db:"lieu" json:"lieu"`
	Heures      float64          `db:"heures" json:"heures"`
	Type        TimeRecordType   `db:"type" json:"type"`
	Statut      workflows.Status `db:"statut" json:"statut"`
	HSValide    bool             `db:"hs_valide" json:"hs_valide"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

type LeaveType string

const (
	LeaveAnnual    LeaveType = "Congé annuel"
	LeaveSick      LeaveType = "Congé maladie"
	LeaveUnpaid    LeaveType = "Congé sans solde"
	LeaveMaternity LeaveType = "Congé maternité"
	LeavePaternity LeaveType = "Congé paternité"
)

type LeaveRequest struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	Code       string           `db:"code" json:"code"`
	EmployeeID uuid.UUID        `db:"employee_id" json:"employee_id"`
	Debut      time.Time        `db:"debut" json:"debut"`
	Fin        time.Time        `db:"fin" json:"fin"`
	Jours      int              `db:"jours" json:"jours"`
	Type       LeaveType        `db:"type" json:"type"`
	Motif      *string          `db:"motif" json:"motif,omitempty"`
	Statut     workflows.Status `db:"statut" json:"statut"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

type AuthorizationType string

const (
	AuthExit    AuthorizationType = "Sortie"
	AuthLate    AuthorizationType = "Retard"
	AuthMission AuthorizationType = "Mission"
	AuthOther   AuthorizationType = "Autre"
)

// Authorization is a short absence permission (leaving early, arriving late,
// going on a mission).
type Authorization struct {
	ID         uuid.UUID         `db:"id" json:"id"`
	Code       string            `db:"code" json:"code"`
	EmployeeID uuid.UUID         `db:"employee_id" json:"employee_id"`
	Date       time.Time         `db:"date" json:"date"`
	Duree      string            `db:"duree" json:"duree"`
	Type       AuthorizationType `db:"type" json:"type"`
	Motif      *string           `db:"motif" json:"motif,omitempty"`
	Statut     workflows.Status  `db:"statut" json:"statut"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

type ExpenseType string

const (
	ExpenseTransport     ExpenseType = "Transport"
	ExpenseMeal          ExpenseType = "Repas"
	ExpenseAccommodation ExpenseType = "Hébergement"
	ExpenseSupplies      ExpenseType = "Fournitures"
	ExpenseOther         ExpenseType = "Autre"
)

type ExpenseReport struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Code        string           `db:"code" json:"code"`
	EmployeeID  uuid.UUID        `db:"employee_id" json:"employee_id"`
	Date        time.Time        `db:"date" json:"date"`
	Designation string           `db:"designation" json:"designation"`
	Montant     float64          `db:"montant" json:"montant"`
	Projet      string           `db:"projet" json:"projet"`
	Type        ExpenseType      `db:"type" json:"type"`
	Statut      workflows.Status `db:"statut" json:"statut"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
