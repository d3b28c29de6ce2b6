package documents

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocQuote          DocumentType = "Devis"
	DocTechnical      DocumentType = "Technique"
	DocAdministrative DocumentType = "Administratif"
	DocOther          DocumentType = "Autre"
)

// codeScope maps a document type onto its code series, so quotes and
// technical documents number independently.
func codeScope(t DocumentType) string {
	switch t {
	case DocQuote:
		return "DEVIS"
	case DocTechnical:
		return "TECH"
	case DocAdministrative:
		return "ADMIN"
	default:
		return "AUTRE"
	}
}

// Document is the stored-file metadata; the bytes live in the object store
// under StorageKey.
type Document struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Code        string       `db:"code" json:"code"`
	Nom         string       `db:"nom" json:"nom"`
	Type        DocumentType `db:"type" json:"type"`
	Departement string       `db:"departement" json:"departement"`
	FileName    string       `db:"file_name" json:"file_name"`
	ContentType string       `db:"content_type" json:"content_type"`
	Taille      int64        `db:"taille" json:"taille"`
	StorageKey  string       `db:"storage_key" json:"-"`
	UploadedBy  uuid.UUID    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}
