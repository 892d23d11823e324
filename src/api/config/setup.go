package config

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIConfig contiene la configuración del módulo API de diagnóstico.
type APIConfig struct {
	DB      *sql.DB
	Version string
}

// DefaultAPIConfig devuelve una configuración por defecto.
func DefaultAPIConfig() APIConfig {
	return APIConfig{Version: "dev"}
}

// SetupAPIModule registra los health checks de la terminal. Este es el
// único alcance de la superficie HTTP local junto con /metrics y los
// endpoints de sincronización: el motor de ventas en sí no expone ningún
// servicio de red, es cliente de sus colaboradores.
func SetupAPIModule(router *gin.Engine, v1 *gin.RouterGroup, cfg APIConfig) {
	health := func(ctx *gin.Context) {
		dbStatus := "disabled"
		if cfg.DB != nil {
			dbStatus = "up"
			if err := cfg.DB.Ping(); err != nil {
				dbStatus = "down"
			}
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.Version,
			"db":      dbStatus,
		})
	}

	router.GET("/health", health)
	v1.GET("/health", health)
}
