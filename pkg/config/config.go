package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env
// y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Store     StoreConfig
	Invoicing InvoicingConfig
	PDF       PDFConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, production
	Name     string
	LogLevel string
}

// HTTPConfig servidor HTTP local. Por defecto escucha solo en loopback: la
// aplicación es de un solo dispositivo, sin servidor remoto.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig almacén local SQLite.
type StoreConfig struct {
	DataDir string
	DBFile  string // relativo a DataDir salvo que sea absoluto
}

// Path ruta final del archivo de base de datos.
func (c StoreConfig) Path() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

// InvoicingConfig numeración de facturas.
type InvoicingConfig struct {
	Prefix        string // prefijo de numeración, ej. "GST"
	DefaultPreset string // clave del preset inicial del catálogo
}

// PDFConfig exportación y previsualización.
type PDFConfig struct {
	OutputDir         string
	PreviewTTLSeconds int
}

// PreviewTTL vida de los handles de previsualización.
func (c PDFConfig) PreviewTTL() time.Duration {
	return time.Duration(c.PreviewTTLSeconds) * time.Second
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo). Las env vars tienen prioridad. Nombres esperados: APP_ENV,
// DATA_DIR, HTTP_PORT, INVOICE_PREFIX, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "factura-local"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			DataDir: getString(v, "DATA_DIR", "./data"),
			DBFile:  getString(v, "DB_FILE", "facturas.db"),
		},
		Invoicing: InvoicingConfig{
			Prefix:        getString(v, "INVOICE_PREFIX", "INV"),
			DefaultPreset: getString(v, "INVOICE_PRESET", "INDIA_GST"),
		},
		PDF: PDFConfig{
			OutputDir:         getString(v, "PDF_OUTPUT_DIR", "./data/pdf"),
			PreviewTTLSeconds: getInt(v, "PREVIEW_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
