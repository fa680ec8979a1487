package router

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/heladeria/flavor-catalog/config"
	"github.com/heladeria/flavor-catalog/internal/app/controller"
	apperrors "github.com/heladeria/flavor-catalog/internal/errors"
	"github.com/heladeria/flavor-catalog/internal/middleware"
	"github.com/heladeria/flavor-catalog/internal/web"
	"github.com/heladeria/flavor-catalog/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	flavorController *controller.FlavorController
	pageController   *controller.PageController
	uploadController *controller.UploadController
	config           *config.Config
}

func NewRouter(
	flavorController *controller.FlavorController,
	pageController *controller.PageController,
	uploadController *controller.UploadController,
	cfg *config.Config,
) *Router {
	return &Router{
		flavorController: flavorController,
		pageController:   pageController,
		uploadController: uploadController,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.SetHTMLTemplate(template.Must(web.Templates()))
	router.StaticFS("/static", http.FS(web.Static()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Flavor catalog is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		flavors := api.Group("/flavors")
		{
			flavors.GET("", r.flavorController.ListFlavors)
			flavors.POST("", r.flavorController.CreateFlavor)
			flavors.GET("/:id", r.flavorController.GetFlavor)
			flavors.PUT("/:id", r.flavorController.UpdateFlavor)
			flavors.DELETE("/:id", r.flavorController.DeleteFlavor)
		}

		api.POST("/uploads/presigned-url", r.uploadController.PresignFlavorImage)
	}

	router.GET("/", r.pageController.Home)
	router.GET("/catalog", r.pageController.Catalog)
	router.GET("/catalog/:id", r.pageController.FlavorDetail)

	admin := router.Group("/admin/flavors")
	{
		admin.GET("", r.pageController.AdminFlavors)
		admin.GET("/export.xlsx", r.pageController.ExportFlavors)
		admin.GET("/new", r.pageController.NewFlavorForm)
		admin.POST("/new", r.pageController.CreateFlavorForm)
		admin.GET("/:id/edit", r.pageController.EditFlavorForm)
		admin.POST("/:id/edit", r.pageController.UpdateFlavorForm)
		admin.POST("/:id/delete", r.pageController.DeleteFlavorForm)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Resource not found")
			return
		}
		r.pageController.NotFound(c)
	})

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
