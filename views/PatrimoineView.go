package views

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type PatrimoineData struct {
	NomFr          string `json:"nom_fr"`
	NomAr          string `json:"nom_ar"`
	Description    string `json:"description"`
	TypePatrimoine string `json:"type_patrimoine"`
	Statut         string `json:"statut"`
	ReferenceAdmin string `json:"reference_administrative"`
	Geojson        string `json:"geojson"`
	IDCommune      int64  `json:"id_commune"`
}

func (uc *UserController) GetPatrimoines(c *gin.Context) {
	DB := models.DB
	query := DB.Model(&models.Patrimoine{}).
		Preload("Commune").
		Preload("Commune.Province").
		Preload("Commune.Province.Region")

	if search := c.Query("search"); search != "" {
		query = query.Where("nom_fr ILIKE ?", "%"+search+"%")
	}
	if t := c.Query("type"); t != "" {
		query = query.Where("type_patrimoine = ?", t)
	}
	if statut := c.Query("statut"); statut != "" {
		query = query.Where("statut = ?", statut)
	}
	if region := c.Query("region"); region != "" {
		query = query.Joins("JOIN commune ON commune.id_commune = patrimoine.id_commune").
			Joins("JOIN province ON province.id_province = commune.id_province").
			Where("province.id_region = ?", region)
	}

	var sites []models.Patrimoine
	if err := query.Order("id_patrimoine").Find(&sites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sites)
}

func (uc *UserController) GetPatrimoine(c *gin.Context) {
	id, ok := ParamID(c, "id_patrimoine")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_patrimoine invalide"})
		return
	}
	DB := models.DB

	var site models.Patrimoine
	err := DB.Preload("Commune").
		Preload("Commune.Province").
		Preload("Commune.Province.Region").
		First(&site, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patrimoine introuvable"})
		return
	}

	// géométrie et centroïde côté PostGIS
	var geo struct {
		Geojson  string  `gorm:"column:geojson"`
		Centroid string  `gorm:"column:centroid"`
		Lon      float64 `gorm:"column:lon"`
		Lat      float64 `gorm:"column:lat"`
	}
	DB.Raw(`
		SELECT ST_AsGeoJSON(polygon_geom) AS geojson,
		       ST_AsGeoJSON(centroid_geom) AS centroid,
		       ST_X(centroid_geom) AS lon,
		       ST_Y(centroid_geom) AS lat
		FROM patrimoine WHERE id_patrimoine = ?
	`, id).Scan(&geo)

	chemin := ""
	if site.Commune != nil && site.Commune.Province != nil && site.Commune.Province.Region != nil {
		chemin = fmt.Sprintf("%s > %s > %s",
			site.Commune.Province.Region.NomRegion,
			site.Commune.Province.NomProvince,
			site.Commune.NomCommune)
	}

	c.JSON(http.StatusOK, gin.H{
		"patrimoine":    site,
		"chemin":        chemin,
		"geojson":       json.RawMessage(geo.Geojson),
		"centroid":      json.RawMessage(geo.Centroid),
		"centroid_lon":  geo.Lon,
		"centroid_lat":  geo.Lat,
	})
}

func (uc *UserController) AddPatrimoine(c *gin.Context) {
	var data PatrimoineData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if data.NomFr == "" || data.TypePatrimoine == "" || data.IDCommune == 0 || data.Geojson == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "champs obligatoires manquants (nom_fr, type_patrimoine, id_commune, geojson)"})
		return
	}
	if !methods.IsStringInSlice(data.TypePatrimoine, models.PatrimoineTypes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type_patrimoine inconnu"})
		return
	}
	if data.Statut == "" {
		data.Statut = models.PatrimoineStatutEnEtude
	}
	if !methods.IsStringInSlice(data.Statut, models.PatrimoineStatuts) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "statut inconnu"})
		return
	}
	DB := models.DB

	var commune models.Commune
	if err := DB.First(&commune, data.IDCommune).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commune introuvable"})
		return
	}

	mp, err := methods.ParseSitePolygon(data.Geojson)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := methods.ValidateSitePolygon(mp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := CurrentUser(c)
	// insertion en SQL brut: centroid_geom est une colonne générée
	var id int64
	err = DB.Raw(`
		INSERT INTO patrimoine
		(nom_fr, nom_ar, description, type_patrimoine, statut, reference_administrative,
		 polygon_geom, id_commune, created_by, created_at, updated_at)
		VALUES
		(?, ?, ?, ?, ?, ?, ST_GeomFromText(?, 4326), ?, ?, NOW(), NOW())
		RETURNING id_patrimoine
	`, data.NomFr, data.NomAr, data.Description, data.TypePatrimoine, data.Statut,
		data.ReferenceAdmin, methods.PolygonWKT(mp), commune.IDCommune, user.IDUtilisateur).Scan(&id).Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionCreate, "patrimoine", id, nil, data, "")
	c.JSON(http.StatusOK, gin.H{"id_patrimoine": id})
}

func (uc *UserController) ChangePatrimoine(c *gin.Context) {
	id, ok := ParamID(c, "id_patrimoine")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_patrimoine invalide"})
		return
	}
	var data PatrimoineData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	DB := models.DB

	var site models.Patrimoine
	if err := DB.First(&site, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patrimoine introuvable"})
		return
	}

	if data.NomFr == "" {
		data.NomFr = site.NomFr
	}
	if data.TypePatrimoine == "" {
		data.TypePatrimoine = site.TypePatrimoine
	}
	if data.Statut == "" {
		data.Statut = site.Statut
	}
	if data.IDCommune == 0 {
		data.IDCommune = site.IDCommune
	}
	if !methods.IsStringInSlice(data.TypePatrimoine, models.PatrimoineTypes) ||
		!methods.IsStringInSlice(data.Statut, models.PatrimoineStatuts) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type ou statut inconnu"})
		return
	}

	before := gin.H{
		"nom_fr": site.NomFr, "type_patrimoine": site.TypePatrimoine,
		"statut": site.Statut, "id_commune": site.IDCommune,
	}

	var err error
	if data.Geojson != "" {
		mp, perr := methods.ParseSitePolygon(data.Geojson)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		if perr := methods.ValidateSitePolygon(mp); perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		err = DB.Exec(`
			UPDATE patrimoine
			SET nom_fr = ?, nom_ar = ?, description = ?,
			    type_patrimoine = ?, statut = ?, reference_administrative = ?,
			    polygon_geom = ST_GeomFromText(?, 4326), id_commune = ?, updated_at = NOW()
			WHERE id_patrimoine = ?
		`, data.NomFr, data.NomAr, data.Description, data.TypePatrimoine, data.Statut,
			data.ReferenceAdmin, methods.PolygonWKT(mp), data.IDCommune, id).Error
	} else {
		err = DB.Exec(`
			UPDATE patrimoine
			SET nom_fr = ?, nom_ar = ?, description = ?,
			    type_patrimoine = ?, statut = ?, reference_administrative = ?,
			    id_commune = ?, updated_at = NOW()
			WHERE id_patrimoine = ?
		`, data.NomFr, data.NomAr, data.Description, data.TypePatrimoine, data.Statut,
			data.ReferenceAdmin, data.IDCommune, id).Error
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := CurrentUser(c)
	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionUpdate, "patrimoine", id, before, data, "")
	c.JSON(http.StatusOK, gin.H{"msg": "patrimoine mis à jour"})
}

func (uc *UserController) DelPatrimoine(c *gin.Context) {
	id, ok := ParamID(c, "id_patrimoine")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_patrimoine invalide"})
		return
	}
	DB := models.DB

	var site models.Patrimoine
	if err := DB.First(&site, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patrimoine introuvable"})
		return
	}
	if err := DB.Delete(&site).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := CurrentUser(c)
	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionDelete, "patrimoine", id, site, nil, "")
	c.JSON(http.StatusOK, gin.H{"msg": "patrimoine supprimé"})
}

// PatrimoineMap serves the map feed as one FeatureCollection, centroid in
// the properties.
func (uc *UserController) PatrimoineMap(c *gin.Context) {
	DB := models.DB
	var rows []struct {
		IDPatrimoine   int64   `gorm:"column:id_patrimoine"`
		NomFr          string  `gorm:"column:nom_fr"`
		TypePatrimoine string  `gorm:"column:type_patrimoine"`
		Statut         string  `gorm:"column:statut"`
		Geojson        []byte  `gorm:"column:geojson"`
		Lon            float64 `gorm:"column:lon"`
		Lat            float64 `gorm:"column:lat"`
	}
	err := DB.Raw(`
		SELECT id_patrimoine, nom_fr, type_patrimoine, statut,
		       ST_AsGeoJSON(polygon_geom) AS geojson,
		       ST_X(centroid_geom) AS lon,
		       ST_Y(centroid_geom) AS lat
		FROM patrimoine
	`).Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, row := range rows {
		geom, err := geojson.UnmarshalGeometry(row.Geojson)
		if err != nil {
			continue
		}
		feature := geojson.NewFeature(geom.Geometry())
		feature.ID = row.IDPatrimoine
		feature.Properties["id_patrimoine"] = row.IDPatrimoine
		feature.Properties["nom_fr"] = row.NomFr
		feature.Properties["type_patrimoine"] = row.TypePatrimoine
		feature.Properties["statut"] = row.Statut
		feature.Properties["centroid"] = orb.Point{row.Lon, row.Lat}
		fc.Append(feature)
	}
	c.JSON(http.StatusOK, fc)
}

func (uc *UserController) ExportPatrimoines(c *gin.Context) {
	DB := models.DB
	var rows []struct {
		IDPatrimoine   int64   `gorm:"column:id_patrimoine"`
		NomFr          string  `gorm:"column:nom_fr"`
		TypePatrimoine string  `gorm:"column:type_patrimoine"`
		Statut         string  `gorm:"column:statut"`
		NomCommune     string  `gorm:"column:nom_commune"`
		NomProvince    string  `gorm:"column:nom_province"`
		NomRegion      string  `gorm:"column:nom_region"`
		CentroidLon    float64 `gorm:"column:centroid_lon"`
		CentroidLat    float64 `gorm:"column:centroid_lat"`
	}
	if err := DB.Raw(`SELECT * FROM v_patrimoine_hierarchie ORDER BY id_patrimoine`).Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	headers := []string{"id_patrimoine", "nom_fr", "type_patrimoine", "statut", "commune", "province", "region", "centroid_lon", "centroid_lat"}
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{
			strconv.FormatInt(row.IDPatrimoine, 10),
			row.NomFr,
			row.TypePatrimoine,
			row.Statut,
			row.NomCommune,
			row.NomProvince,
			row.NomRegion,
			strconv.FormatFloat(row.CentroidLon, 'f', 6, 64),
			strconv.FormatFloat(row.CentroidLat, 'f', 6, 64),
		})
	}
	out, err := methods.BuildCSV(headers, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=patrimoines.csv")
	c.Data(http.StatusOK, "text/csv", out)
}
