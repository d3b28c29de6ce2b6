package hr

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Generic field updates on workflow records. Status never changes through
// these paths; approvals and validations go through the transition methods.

type UpdateTimeRecordRequest struct {
	Date        *time.Time      `json:"date"`
	HeureEntree *string         `json:"heure_entree"`
	HeureSortie *string         `json:"heure_sortie"`
	Lieu        *string         `json:"lieu"`
	Heures      *float64        `json:"heures"`
	Type        *TimeRecordType `json:"type"`
}

func (s *Service) UpdateTimeRecord(ctx context.Context, id uuid.UUID, req UpdateTimeRecordRequest) (*TimeRecord, error) {
	tr, err := s.GetTimeRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		tr.Date = *req.Date
	}
	if req.HeureEntree != nil {
		tr.HeureEntree = *req.HeureEntree
	}
	if req.HeureSortie != nil {
		tr.HeureSortie = *req.HeureSortie
	}
	if req.Lieu != nil {
		tr.Lieu = *req.Lieu
	}
	if req.Heures != nil {
		tr.Heures = *req.Heures
	}
	if req.Type != nil {
		tr.Type = *req.Type
	}

	if err := s.repo.UpdateTimeRecord(ctx, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

type UpdateLeaveRequestRequest struct {
	Debut *time.Time `json:"debut"`
	Fin   *time.Time `json:"fin"`
	Jours *int       `json:"jours"`
	Type  *LeaveType `json:"type"`
	Motif *string    `json:"motif"`
}

func (s *Service) UpdateLeaveRequest(ctx context.Context, id uuid.UUID, req UpdateLeaveRequestRequest) (*LeaveRequest, error) {
	lr, err := s.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Debut != nil {
		lr.Debut = *req.Debut
	}
	if req.Fin != nil {
		lr.Fin = *req.Fin
	}
	if req.Jours != nil {
		lr.Jours = *req.Jours
	}
	if req.Type != nil {
		lr.Type = *req.Type
	}
	if req.Motif != nil {
		lr.Motif = req.Motif
	}

	if err := s.repo.UpdateLeaveRequest(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

type UpdateAuthorizationRequest struct {
	Date  *time.Time         `json:"date"`
	Duree *string            `json:"duree"`
	Type  *AuthorizationType `json:"type"`
	Motif *string            `json:"motif"`
}

func (s *Service) UpdateAuthorization(ctx context.Context, id uuid.UUID, req UpdateAuthorizationRequest) (*Authorization, error) {
	a, err := s.GetAuthorization(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		a.Date = *req.Date
	}
	if req.Duree != nil {
		a.Duree = *req.Duree
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Motif != nil {
		a.Motif = req.Motif
	}

	if err := s.repo.UpdateAuthorization(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

type UpdateExpenseReportRequest struct {
	Date        *time.Time   `json:"date"`
	Designation *string      `json:"designation"`
	Montant     *float64     `json:"montant"`
	Projet      *string      `json:"projet"`
	Type        *ExpenseType `json:"type"`
}

func (s *Service) UpdateExpenseReport(ctx context.Context, id uuid.UUID, req UpdateExpenseReportRequest) (*ExpenseReport, error) {
	er, err := s.GetExpenseReport(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		er.Date = *req.Date
	}
	if req.Designation != nil {
		er.Designation = *req.Designation
	}
	if req.Montant != nil {
		er.Montant = *req.Montant
	}
	if req.Projet != nil {
		er.Projet = *req.Projet
	}
	if req.Type != nil {
		er.Type = *req.Type
	}

	if err := s.repo.UpdateExpenseReport(ctx, er); err != nil {
		return nil, err
	}
	return er, nil
}
