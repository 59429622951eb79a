package api

import (
	"net/http"

	"shortsmith/config"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers liveness and catalog endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", handleHealth)
	r.GET("/api/backgrounds", handleBackgrounds)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleBackgrounds lists the background catalog with its credits.
func handleBackgrounds(c *gin.Context) {
	out := make([]gin.H, 0, len(config.Backgrounds))
	for _, name := range config.BackgroundNames() {
		bg := config.Backgrounds[name]
		out = append(out, gin.H{
			"name":     bg.Name,
			"uri":      bg.URI,
			"citation": bg.Citation,
		})
	}
	c.JSON(http.StatusOK, gin.H{"backgrounds": out})
}
