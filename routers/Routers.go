package routers

import (
	"github.com/MohammedBelfellah/patrimoine/config"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/MohammedBelfellah/patrimoine/views"
	"github.com/gin-gonic/gin"
)

func PatrimoineRouters(r *gin.Engine) {
	UserController := &views.UserController{}

	AuthRouter := r.Group("/auth")
	{
		AuthRouter.POST("/Login", UserController.Login)
		AuthRouter.POST("/Logout", views.AuthRequired(), UserController.Logout)
	}

	// listes en cascade, publiques pour la carte
	GeoRouter := r.Group("/geo")
	{
		GeoRouter.GET("/GetRegions", UserController.GetRegions)
		GeoRouter.GET("/GetProvinces/:id_region", UserController.GetProvincesByRegion)
		GeoRouter.GET("/GetCommunes/:id_province", UserController.GetCommunesByProvince)
		GeoRouter.GET("/GetPatrimoinesByCommune/:id_commune", UserController.GetPatrimoinesByCommune)
		GeoRouter.GET("/PatrimoineMap", UserController.PatrimoineMap)
	}

	PatrimoineRouter := r.Group("/patrimoine", views.AuthRequired())
	{
		PatrimoineRouter.GET("/GetPatrimoines", UserController.GetPatrimoines)
		PatrimoineRouter.GET("/GetPatrimoine/:id_patrimoine", UserController.GetPatrimoine)
		PatrimoineRouter.GET("/Export", UserController.ExportPatrimoines)
		PatrimoineRouter.POST("/AddPatrimoine", views.RoleRequired(models.RoleAdmin), UserController.AddPatrimoine)
		PatrimoineRouter.POST("/ChangePatrimoine/:id_patrimoine", views.RoleRequired(models.RoleAdmin), UserController.ChangePatrimoine)
		PatrimoineRouter.POST("/DelPatrimoine/:id_patrimoine", views.RoleRequired(), UserController.DelPatrimoine)
	}

	InspectionRouter := r.Group("/inspection", views.AuthRequired())
	{
		InspectionRouter.GET("/GetInspections", UserController.GetInspections)
		InspectionRouter.GET("/GetInspection/:id_inspection", UserController.GetInspection)
		InspectionRouter.GET("/Export", UserController.ExportInspections)
		InspectionRouter.POST("/AddInspection", views.RoleRequired(models.RoleInspecteur), UserController.AddInspection)
		InspectionRouter.POST("/ArchiveInspection/:id_inspection", views.RoleRequired(models.RoleAdmin), UserController.ArchiveInspection)
		InspectionRouter.POST("/RequestEdit/:id_inspection", views.RoleRequired(models.RoleInspecteur), UserController.RequestInspectionEdit)
		InspectionRouter.POST("/ApproveRequest/:id_request", views.RoleRequired(models.RoleAdmin), UserController.ApproveInspectionRequest)
		InspectionRouter.POST("/RejectRequest/:id_request", views.RoleRequired(models.RoleAdmin), UserController.RejectInspectionRequest)
	}

	InterventionRouter := r.Group("/intervention", views.AuthRequired(), views.RoleRequired(models.RoleAdmin))
	{
		InterventionRouter.GET("/GetInterventions", UserController.GetInterventions)
		InterventionRouter.GET("/GetIntervention/:id_intervention", UserController.GetIntervention)
		InterventionRouter.GET("/Export", UserController.ExportInterventions)
		InterventionRouter.POST("/AddIntervention", UserController.AddIntervention)
		InterventionRouter.POST("/ChangeIntervention/:id_intervention", UserController.ChangeIntervention)
		InterventionRouter.POST("/DelIntervention/:id_intervention", UserController.DelIntervention)
	}

	DocumentRouter := r.Group("/document", views.AuthRequired())
	{
		DocumentRouter.Static("/Files", config.Upload)
		DocumentRouter.GET("/GetDocuments", UserController.GetDocuments)
		DocumentRouter.POST("/UploadDocument", views.RoleRequired(models.RoleAdmin, models.RoleInspecteur), UserController.UploadDocument)
		DocumentRouter.POST("/UploadDocumentZip", views.RoleRequired(models.RoleAdmin, models.RoleInspecteur), UserController.UploadDocumentZip)
		DocumentRouter.POST("/DelDocument/:id_document", views.RoleRequired(models.RoleAdmin), UserController.DelDocument)
	}

	StatsRouter := r.Group("/stats", views.AuthRequired())
	{
		StatsRouter.GET("/Dashboard", UserController.GetDashboard)
		StatsRouter.GET("/Hierarchie", UserController.GetHierarchie)
		StatsRouter.GET("/StatsCommune", UserController.GetStatsCommune)
	}

	AdminRouter := r.Group("/admin", views.AuthRequired(), views.RoleRequired())
	{
		AdminRouter.GET("/GetUsers", UserController.GetUsers)
		AdminRouter.POST("/SetUserRole", UserController.SetUserRole)
		AdminRouter.POST("/ToggleUserActive/:id_utilisateur", UserController.ToggleUserActive)
		AdminRouter.GET("/GetAuditLog", UserController.GetAuditLog)
	}
}
