package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv carga el .env de la terminal si existe. La ausencia no es
// error: en producción la configuración llega por variables de entorno.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  Sin archivo .env, usando variables de entorno")
	}
}

// GetEnv obtiene una variable de entorno o devuelve un valor por defecto.
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// PostgresDSN arma el string de conexión al almacén remoto.
func PostgresDSN() string {
	dbHost := GetEnv("DB_HOST", "localhost")
	dbPort := GetEnv("DB_PORT", "5432")
	dbUser := GetEnv("DB_USER", "postgres")
	dbPassword := GetEnv("DB_PASSWORD", "postgres")
	dbName := GetEnv("DB_NAME", "pdv_db")

	return "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=disable"
}

// QueuePath es la ruta del archivo SQLite de la cola local durable.
func QueuePath() string {
	return GetEnv("PDV_QUEUE_PATH", "pdv_queue.db")
}

// RemoteHealthURL es el endpoint que sondea el monitor de conectividad.
func RemoteHealthURL() string {
	return GetEnv("REMOTE_HEALTH_URL", "http://localhost:8090/health")
}
