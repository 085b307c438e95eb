package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
)

func NewRouter(h *Handler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(h.Log), middleware.Recovery(h.Log))
	r.Use(cors.New(corsConfig(origins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	requireAuth := middleware.RequireAuth(h.Tokens)
	requireAdmin := middleware.RequireAdmin(h.Store, h.Log)

	r.GET("/", h.Home)
	r.GET("/healthz", h.Health)

	r.GET("/treatment", h.GetTreatments)
	r.GET("/available", h.GetAvailable)

	r.GET("/user", requireAuth, h.GetUsers)
	r.PUT("/user/:email", h.UpsertUser)
	r.GET("/admin/:email", h.CheckAdmin)
	r.PUT("/user/admin/:email", requireAuth, requireAdmin, h.MakeAdmin)

	r.GET("/booking", requireAuth, h.GetBookings)
	r.POST("/booking", h.CreateBooking)

	doctors := r.Group("/doctor", requireAuth, requireAdmin)
	{
		doctors.GET("", h.GetDoctors)
		doctors.POST("", h.AddDoctor)
		doctors.DELETE("/:email", h.DeleteDoctor)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
