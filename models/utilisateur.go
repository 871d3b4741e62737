package models

const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleInspecteur = "inspecteur"
	RolePublic     = "public"
)

type Utilisateur struct {
	IDUtilisateur int64  `gorm:"primary_key;autoIncrement;column:id_utilisateur" json:"id_utilisateur"`
	Username      string `gorm:"type:varchar(150);uniqueIndex:uidx_utilisateur_username" json:"username"`
	Email         string `gorm:"type:varchar(254)" json:"email"`
	Password      string `gorm:"type:varchar(255)" json:"-"`
	Nom           string `gorm:"type:varchar(150)" json:"nom"`
	Role          string `gorm:"type:varchar(50);default:'public'" json:"role"`
	Token         string `gorm:"type:varchar(255);index" json:"-"`
	Actif         bool   `gorm:"default:true" json:"actif"`
	Date          string `gorm:"type:varchar(255)" json:"date"`
}

// IsAdmin: superadmin inherits every admin capability
func (u *Utilisateur) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}

func (u *Utilisateur) IsInspecteur() bool {
	return u.Role == RoleInspecteur
}
