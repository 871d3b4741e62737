package models

import "time"

const (
	DocumentTypePDF      = "PDF"
	DocumentTypeImage    = "IMAGE"
	DocumentTypeOfficiel = "OFFICIEL"
	DocumentTypeAutre    = "AUTRE"

	// MaxDocumentSizeMB is also enforced by a CHECK constraint on file_size_mb.
	MaxDocumentSizeMB = 5.0
)

var DocumentTypes = []string{DocumentTypePDF, DocumentTypeImage, DocumentTypeOfficiel, DocumentTypeAutre}

// Document belongs to exactly one of patrimoine / inspection / intervention /
// modification request.
type Document struct {
	IDDocument     int64        `gorm:"primary_key;autoIncrement;column:id_document" json:"id_document"`
	TypeDocument   string       `gorm:"type:varchar(50)" json:"type_document"`
	FileName       string       `gorm:"type:varchar(255)" json:"file_name"`
	FilePath       string       `gorm:"type:text" json:"file_path"`
	FileSizeMB     float64      `gorm:"type:numeric(5,2);column:file_size_mb" json:"file_size_mb"`
	UploadedAt     time.Time    `gorm:"autoCreateTime" json:"uploaded_at"`
	UploadedBy     int64        `gorm:"column:uploaded_by" json:"uploaded_by"`
	Uploader       *Utilisateur `gorm:"foreignKey:UploadedBy;references:IDUtilisateur" json:"uploader,omitempty"`
	IDPatrimoine   *int64       `gorm:"column:id_patrimoine;index" json:"id_patrimoine,omitempty"`
	IDInspection   *int64       `gorm:"column:id_inspection;index" json:"id_inspection,omitempty"`
	IDIntervention *int64       `gorm:"column:id_intervention;index" json:"id_intervention,omitempty"`
	IDRequest      *int64       `gorm:"column:id_request;index" json:"id_request,omitempty"`
}

// ContextCount counts the non-null context references. Valid rows have exactly one.
func (d *Document) ContextCount() int {
	n := 0
	for _, id := range []*int64{d.IDPatrimoine, d.IDInspection, d.IDIntervention, d.IDRequest} {
		if id != nil {
			n++
		}
	}
	return n
}
