package models

// Découpage administratif du Maroc: region -> province -> commune

const (
	ProvinceTypeProvince   = "Province"
	ProvinceTypePrefecture = "Préfecture"

	CommuneTypeUrbaine = "Urbaine"
	CommuneTypeRurale  = "Rurale"
)

type Region struct {
	IDRegion   int64  `gorm:"primary_key;autoIncrement;column:id_region" json:"id_region"`
	NomRegion  string `gorm:"type:varchar(150);uniqueIndex:uidx_region_nom" json:"nom_region"`
	CodeRegion string `gorm:"type:varchar(10)" json:"code_region,omitempty"`
}

type Province struct {
	IDProvince   int64   `gorm:"primary_key;autoIncrement;column:id_province" json:"id_province"`
	NomProvince  string  `gorm:"type:varchar(150);uniqueIndex:uidx_province_nom_region" json:"nom_province"`
	CodeProvince string  `gorm:"type:varchar(10)" json:"code_province,omitempty"`
	TypeProvince string  `gorm:"type:varchar(50)" json:"type_province"`
	IDRegion     int64   `gorm:"column:id_region;uniqueIndex:uidx_province_nom_region;index" json:"id_region"`
	Region       *Region `gorm:"foreignKey:IDRegion;references:IDRegion" json:"region,omitempty"`
}

type Commune struct {
	IDCommune   int64     `gorm:"primary_key;autoIncrement;column:id_commune" json:"id_commune"`
	NomCommune  string    `gorm:"type:varchar(150);uniqueIndex:uidx_commune_nom_province" json:"nom_commune"`
	CodeCommune string    `gorm:"type:varchar(10)" json:"code_commune,omitempty"`
	TypeCommune string    `gorm:"type:varchar(50)" json:"type_commune"`
	IDProvince  int64     `gorm:"column:id_province;uniqueIndex:uidx_commune_nom_province;index" json:"id_province"`
	Province    *Province `gorm:"foreignKey:IDProvince;references:IDProvince" json:"province,omitempty"`
}
