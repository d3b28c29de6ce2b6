package hr

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"visio-hr/hr-portal-backend/pkg/export"
)

// ExportEmployeesExcel dumps the filtered employee list into an XLSX
// workbook.
func (s *Service) ExportEmployeesExcel(ctx context.Context, filter EmployeeFilter) (*bytes.Buffer, error) {
	filter.Limit = 10000
	filter.Offset = 0

	employees, _, err := s.repo.ListEmployees(ctx, filter)
	if err != nil {
		return nil, err
	}

	headers := []string{"Code", "Nom", "Prénom", "Email", "Poste", "Département", "Date d'embauche", "Salaire", "Statut"}
	rows := make([][]interface{}, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []interface{}{
			e.Code, e.Nom, e.Prenom, e.Email, e.Poste, e.Departement,
			e.DateEmbauche.Format("2006-01-02"), e.Salaire, string(e.Statut),
		})
	}

	options := export.DefaultExcelOptions()
	options.SheetName = "Employés"
	return export.WriteExcel(headers, rows, options)
}

// ExportExpenseReportsExcel dumps the filtered expense reports into an XLSX
// workbook.
func (s *Service) ExportExpenseReportsExcel(ctx context.Context, filter RecordFilter) (*bytes.Buffer, error) {
	filter.Limit = 10000
	filter.Offset = 0

	reports, _, err := s.repo.ListExpenseReports(ctx, filter)
	if err != nil {
		return nil, err
	}

	headers := []string{"Code", "Date", "Désignation", "Montant", "Projet", "Type", "Statut"}
	rows := make([][]interface{}, 0, len(reports))
	for _, er := range reports {
		rows = append(rows, []interface{}{
			er.Code, er.Date.Format("2006-01-02"), er.Designation, er.Montant,
			er.Projet, string(er.Type), string(er.Statut),
		})
	}

	options := export.DefaultExcelOptions()
	options.SheetName = "Notes de frais"
	return export.WriteExcel(headers, rows, options)
}

// ExportExpenseReportPDF renders a single expense report as a PDF slip.
func (s *Service) ExportExpenseReportPDF(ctx context.Context, id uuid.UUID) (*bytes.Buffer, string, error) {
	er, err := s.GetExpenseReport(ctx, id)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Champ", "Valeur"}
	rows := [][]string{
		{"Code", er.Code},
		{"Date", er.Date.Format("2006-01-02")},
		{"Désignation", er.Designation},
		{"Montant", fmt.Sprintf("%.2f", er.Montant)},
		{"Projet", er.Projet},
		{"Type", string(er.Type)},
		{"Statut", string(er.Statut)},
	}

	buf, err := export.WritePDF(headers, rows, export.DefaultPDFOptions("Note de frais "+er.Code))
	if err != nil {
		return nil, "", err
	}
	return buf, er.Code, nil
}
