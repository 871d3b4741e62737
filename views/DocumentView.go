package views

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MohammedBelfellah/patrimoine/config"
	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxDocumentBytes = int64(models.MaxDocumentSizeMB * 1024 * 1024)

// documentContext reads the four optional context ids from the form and
// enforces the one-context rule before the CHECK constraint does.
func documentContext(c *gin.Context) (patrimoine, inspection, intervention, request *int64, err string) {
	bad := ""
	parse := func(field string) *int64 {
		raw := strings.TrimSpace(c.PostForm(field))
		if raw == "" {
			return nil
		}
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || id <= 0 {
			// un id illisible est une erreur, pas une absence
			if bad == "" {
				bad = field + " invalide"
			}
			return nil
		}
		return &id
	}
	patrimoine = parse("id_patrimoine")
	inspection = parse("id_inspection")
	intervention = parse("id_intervention")
	request = parse("id_request")
	if bad != "" {
		return nil, nil, nil, nil, bad
	}

	n := 0
	for _, id := range []*int64{patrimoine, inspection, intervention, request} {
		if id != nil {
			n++
		}
	}
	if n != 1 {
		return nil, nil, nil, nil, "un document appartient à exactement un contexte (patrimoine, inspection, intervention ou demande)"
	}
	return patrimoine, inspection, intervention, request, ""
}

func documentTypeFor(c *gin.Context, filename string) string {
	if t := strings.TrimSpace(c.PostForm("type_document")); t != "" && methods.IsStringInSlice(t, models.DocumentTypes) {
		return t
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.DocumentTypePDF
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".tif", ".tiff":
		return models.DocumentTypeImage
	default:
		return models.DocumentTypeAutre
	}
}

func sizeMB(bytes int64) float64 {
	// arrondi à 2 décimales, plancher à 0.01 pour les petits fichiers
	mb := math.Round(float64(bytes)/1024.0/1024.0*100) / 100
	if mb < 0.01 {
		mb = 0.01
	}
	return mb
}

func (uc *UserController) GetDocuments(c *gin.Context) {
	DB := models.DB
	query := DB.Model(&models.Document{}).Preload("Uploader")
	for _, field := range []string{"id_patrimoine", "id_inspection", "id_intervention", "id_request"} {
		if v := c.Query(field); v != "" {
			query = query.Where(field+" = ?", v)
		}
	}

	var documents []models.Document
	if err := query.Order("id_document DESC").Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, documents)
}

func (uc *UserController) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fichier manquant"})
		return
	}
	if file.Size <= 0 || file.Size > maxDocumentBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("taille de fichier hors limite (0 < taille <= %.0fMo)", models.MaxDocumentSizeMB)})
		return
	}

	patrimoine, inspection, intervention, request, msg := documentContext(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	stored := uuid.New().String() + filepath.Ext(file.Filename)
	path := filepath.Join(config.Upload, stored)
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := CurrentUser(c)
	DB := models.DB
	document := models.Document{
		TypeDocument:   documentTypeFor(c, file.Filename),
		FileName:       file.Filename,
		FilePath:       path,
		FileSizeMB:     sizeMB(file.Size),
		UploadedBy:     user.IDUtilisateur,
		IDPatrimoine:   patrimoine,
		IDInspection:   inspection,
		IDIntervention: intervention,
		IDRequest:      request,
	}
	if err := DB.Create(&document).Error; err != nil {
		os.Remove(path)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionCreate, "document", document.IDDocument, nil,
		gin.H{"file_name": document.FileName, "type_document": document.TypeDocument, "file_size_mb": document.FileSizeMB}, "")
	c.JSON(http.StatusOK, document)
}

// UploadDocumentZip expands an archive and attaches every contained file to
// the same context. Oversized entries are skipped and reported.
func (uc *UserController) UploadDocumentZip(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fichier manquant"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".zip" && ext != ".rar" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "archive .zip ou .rar attendue"})
		return
	}

	patrimoine, inspection, intervention, request, msg := documentContext(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	taskid := uuid.New().String()
	archivePath, _ := filepath.Abs(filepath.Join("./TempFile", taskid, file.Filename))
	if err := c.SaveUploadedFile(file, archivePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.RemoveAll(filepath.Dir(archivePath))

	if err := methods.Unzip(archivePath); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := CurrentUser(c)
	DB := models.DB
	var created []models.Document
	var skipped []string

	dirpath := filepath.Dir(archivePath)
	filepath.Walk(dirpath, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || path == archivePath {
			return nil
		}
		if info.Size() <= 0 || info.Size() > maxDocumentBytes {
			skipped = append(skipped, info.Name())
			return nil
		}

		stored := uuid.New().String() + filepath.Ext(info.Name())
		dest := filepath.Join(config.Upload, stored)
		if err := copyFile(path, dest); err != nil {
			skipped = append(skipped, info.Name())
			return nil
		}

		document := models.Document{
			TypeDocument:   documentTypeFor(c, info.Name()),
			FileName:       info.Name(),
			FilePath:       dest,
			FileSizeMB:     sizeMB(info.Size()),
			UploadedBy:     user.IDUtilisateur,
			IDPatrimoine:   patrimoine,
			IDInspection:   inspection,
			IDIntervention: intervention,
			IDRequest:      request,
		}
		if err := DB.Create(&document).Error; err != nil {
			os.Remove(dest)
			skipped = append(skipped, info.Name())
			return nil
		}
		methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionCreate, "document", document.IDDocument, nil,
			gin.H{"file_name": document.FileName, "batch": taskid}, "")
		created = append(created, document)
		return nil
	})

	c.JSON(http.StatusOK, gin.H{"documents": created, "skipped": skipped})
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}

func (uc *UserController) DelDocument(c *gin.Context) {
	id, ok := ParamID(c, "id_document")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_document invalide"})
		return
	}
	DB := models.DB

	var document models.Document
	if err := DB.First(&document, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document introuvable"})
		return
	}
	if err := DB.Delete(&document).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := os.Remove(document.FilePath); err != nil && !os.IsNotExist(err) {
		// la ligne est partie, le fichier orphelin est signalé seulement
		fmt.Println("Failed to remove document file:", err.Error())
	}

	user := CurrentUser(c)
	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionDelete, "document", id, document, nil, "")
	c.JSON(http.StatusOK, gin.H{"msg": "document supprimé"})
}
