package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

// Chargement du découpage administratif marocain depuis un fichier JSON.

type MarocProvince struct {
	Nom      string   `json:"nom"`
	Type     string   `json:"type"`
	Communes []string `json:"communes"`
}

type MarocRegion struct {
	ID                   int64           `json:"id"`
	Nom                  string          `json:"nom"`
	ProvincesPrefectures []MarocProvince `json:"provinces_prefectures"`
}

type MarocData struct {
	Regions []MarocRegion `json:"regions"`
}

func LoadMarocFile(path string) (*MarocData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data MarocData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}
	return &data, nil
}

// ProvinceTypeFromLabel keeps "Préfecture" when the label says so,
// everything else is a Province.
func ProvinceTypeFromLabel(label string) string {
	if strings.Contains(strings.ToLower(label), "préfecture") {
		return models.ProvinceTypePrefecture
	}
	return models.ProvinceTypeProvince
}

// SeedMarocData loads the 3-level hierarchy, get-or-create on every level so
// reruns are harmless.
func SeedMarocData(db *gorm.DB, data *MarocData) error {
	for _, regionData := range data.Regions {
		nom := strings.TrimSpace(regionData.Nom)
		if nom == "" {
			log.Println("Skipping region with no name")
			continue
		}

		var region models.Region
		err := db.Where("nom_region = ?", nom).
			Attrs(models.Region{IDRegion: regionData.ID}).
			FirstOrCreate(&region, models.Region{NomRegion: nom}).Error
		if err != nil {
			return err
		}

		for _, provData := range regionData.ProvincesPrefectures {
			nomProvince := strings.TrimSpace(provData.Nom)
			if nomProvince == "" {
				continue
			}
			var province models.Province
			err := db.Where("nom_province = ? AND id_region = ?", nomProvince, region.IDRegion).
				Attrs(models.Province{TypeProvince: ProvinceTypeFromLabel(provData.Type)}).
				FirstOrCreate(&province, models.Province{NomProvince: nomProvince, IDRegion: region.IDRegion}).Error
			if err != nil {
				return err
			}

			for _, communeName := range provData.Communes {
				nomCommune := strings.TrimSpace(communeName)
				if nomCommune == "" {
					continue
				}
				var commune models.Commune
				err := db.Where("nom_commune = ? AND id_province = ?", nomCommune, province.IDProvince).
					Attrs(models.Commune{TypeCommune: models.CommuneTypeUrbaine}).
					FirstOrCreate(&commune, models.Commune{NomCommune: nomCommune, IDProvince: province.IDProvince}).Error
				if err != nil {
					return err
				}
			}
		}
	}

	var nbRegions, nbProvinces, nbCommunes int64
	db.Model(&models.Region{}).Count(&nbRegions)
	db.Model(&models.Province{}).Count(&nbProvinces)
	db.Model(&models.Commune{}).Count(&nbCommunes)
	log.Printf("Seeding done: %d régions, %d provinces, %d communes", nbRegions, nbProvinces, nbCommunes)
	return nil
}

type sampleSite struct {
	Nom         string
	Region      string
	Type        string
	Statut      string
	Description string
	Center      orb.Point
}

var sampleSites = []sampleSite{
	{"Médina de Fès", "Fès-Meknès", models.PatrimoineTypeHistorique, models.PatrimoineStatutClasse, "Ancien centre urbain fortifié", orb.Point{-4.978, 34.065}},
	{"Koutoubia de Marrakech", "Marrakech-Safi", models.PatrimoineTypeHistorique, models.PatrimoineStatutClasse, "Grande mosquée du XIIe siècle", orb.Point{-7.993, 31.624}},
	{"Casbah Taourirt", "Drâa-Tafilalet", models.PatrimoineTypeHistorique, models.PatrimoineStatutClasse, "Forteresse historique du XVI-XVIIe siècles", orb.Point{-6.906, 30.917}},
	{"Vallée du Drâa", "Drâa-Tafilalet", models.PatrimoineTypeNaturel, models.PatrimoineStatutInscrit, "Vallée oasis avec patrimoine naturel", orb.Point{-6.500, 30.300}},
	{"Médina d'Essaouira", "Marrakech-Safi", models.PatrimoineTypeHistorique, models.PatrimoineStatutInscrit, "Port historique côtier", orb.Point{-9.770, 31.513}},
}

// SampleFootprint builds a small rectangular footprint around a center point.
func SampleFootprint(center orb.Point, delta float64) orb.MultiPolygon {
	ring := orb.Ring{
		{center[0] - delta, center[1] - delta},
		{center[0] + delta, center[1] - delta},
		{center[0] + delta, center[1] + delta},
		{center[0] - delta, center[1] + delta},
		{center[0] - delta, center[1] - delta},
	}
	return orb.MultiPolygon{orb.Polygon{ring}}
}

// SeedSamplePatrimoines inserts demonstration sites, one per sample, using
// the first commune of each target region. Requires PostGIS.
func SeedSamplePatrimoines(db *gorm.DB, createdBy int64) error {
	for _, site := range sampleSites {
		var region models.Region
		if err := db.Where("nom_region = ?", site.Region).First(&region).Error; err != nil {
			log.Printf("No region %q, skipping %s", site.Region, site.Nom)
			continue
		}
		var commune models.Commune
		err := db.Joins("JOIN province ON province.id_province = commune.id_province").
			Where("province.id_region = ?", region.IDRegion).
			First(&commune).Error
		if err != nil {
			log.Printf("No commune found for %s, skipping %s", site.Region, site.Nom)
			continue
		}

		var existing int64
		db.Model(&models.Patrimoine{}).Where("nom_fr = ?", site.Nom).Count(&existing)
		if existing > 0 {
			continue
		}

		mp := SampleFootprint(site.Center, 0.005)
		err = db.Exec(`
			INSERT INTO patrimoine
			(nom_fr, description, type_patrimoine, statut, polygon_geom, id_commune, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ST_GeomFromText(?, 4326), ?, ?, NOW(), NOW())
		`, site.Nom, site.Description, site.Type, site.Statut, methods.PolygonWKT(mp), commune.IDCommune, createdBy).Error
		if err != nil {
			return err
		}
		log.Printf("Created sample site: %s", site.Nom)
	}
	return nil
}
