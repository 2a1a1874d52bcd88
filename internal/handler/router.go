package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ekos-sistemi/ekos-api/internal/middleware"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	"github.com/ekos-sistemi/ekos-api/internal/service"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth      *AuthHandler
	Rapor     *RaporHandler
	Media     *MediaHandler
	Export    *ExportHandler
	Proje     *ProjeHandler
	Kategori  *KategoriHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts all API routes under the configured prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authSvc *service.AuthService) {
	if prefix == "" {
		prefix = "/api"
	}
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)
	secured.POST("/auth/change-password", h.Auth.ChangePassword)

	secured.GET("/raporlar", h.Rapor.List)
	secured.GET("/raporlar/:id", h.Rapor.Get)
	secured.GET("/raporlar/:id/medya", h.Media.List)
	secured.POST("/raporlar/zip-export", h.Rapor.ZipExport)
	secured.GET("/raporlar/excel-export", h.Export.Excel)

	editors := secured.Group("")
	editors.Use(middleware.RequireEditor())
	editors.POST("/raporlar", h.Rapor.Create)
	editors.PUT("/raporlar/:id", h.Rapor.Update)
	editors.PATCH("/raporlar/:id/durum", h.Rapor.ToggleDurum)
	editors.DELETE("/raporlar/:id", h.Rapor.Delete)
	editors.POST("/raporlar/bulk-delete", h.Rapor.BulkDelete)
	editors.POST("/raporlar/:id/medya", h.Media.Upload)

	secured.GET("/projeler", h.Proje.List)
	editors.POST("/projeler", h.Proje.Create)
	editors.PUT("/projeler/:id", h.Proje.Update)

	admins := secured.Group("")
	admins.Use(middleware.RequireRoles(models.RoleAdmin))
	admins.DELETE("/projeler/:id", h.Proje.Delete)

	secured.GET("/kategoriler", h.Kategori.List)
	admins.POST("/kategoriler", h.Kategori.Create)
	admins.DELETE("/kategoriler/:id", h.Kategori.Delete)

	secured.GET("/dashboard/stats", h.Dashboard.Stats)
}
