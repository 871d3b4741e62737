package models

import "time"

const (
	PatrimoineTypeMondial    = "MONDIAL"
	PatrimoineTypeNaturel    = "NATUREL"
	PatrimoineTypeHistorique = "HISTORIQUE"
	PatrimoineTypeAutre      = "AUTRE"

	PatrimoineStatutClasse  = "CLASSE"
	PatrimoineStatutInscrit = "INSCRIT"
	PatrimoineStatutEnEtude = "EN_ETUDE"
	PatrimoineStatutAutre   = "AUTRE"
)

var PatrimoineTypes = []string{PatrimoineTypeMondial, PatrimoineTypeNaturel, PatrimoineTypeHistorique, PatrimoineTypeAutre}
var PatrimoineStatuts = []string{PatrimoineStatutClasse, PatrimoineStatutInscrit, PatrimoineStatutEnEtude, PatrimoineStatutAutre}

type Patrimoine struct {
	IDPatrimoine     int64        `gorm:"primary_key;autoIncrement;column:id_patrimoine" json:"id_patrimoine"`
	NomFr            string       `gorm:"type:varchar(300)" json:"nom_fr"`
	NomAr            string       `gorm:"type:varchar(300)" json:"nom_ar,omitempty"`
	Description      string       `gorm:"type:text" json:"description,omitempty"`
	TypePatrimoine   string       `gorm:"type:varchar(50);index" json:"type_patrimoine"`
	Statut           string       `gorm:"type:varchar(50);default:'EN_ETUDE';index" json:"statut"`
	ReferenceAdmin   string       `gorm:"type:varchar(100);column:reference_administrative" json:"reference_administrative,omitempty"`
	PolygonGeom      string       `gorm:"type:geometry(MultiPolygon,4326);not null" json:"-"`
	CentroidGeom     string       `gorm:"->;type:geometry(Point,4326)" json:"-"`
	IDCommune        int64        `gorm:"column:id_commune;index" json:"id_commune"`
	Commune          *Commune     `gorm:"foreignKey:IDCommune;references:IDCommune" json:"commune,omitempty"`
	CreatedBy        int64        `gorm:"column:created_by" json:"created_by"`
	Createur         *Utilisateur `gorm:"foreignKey:CreatedBy;references:IDUtilisateur" json:"createur,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
