package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del storefront (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	DB      DBConfig
	Notify  NotifyConfig
	Login   LoginConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	PublicURL string // URL pública del storefront (QR del comprobante); vacío = sin QR
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string // vacío o inexistente = sin UI de Swagger
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig apunta a la API REST de la tienda.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// Timeout devuelve el timeout de red para el cliente REST.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Drivers de almacenamiento de sesión soportados.
const (
	SessionDriverMemory   = "memory"
	SessionDriverFile     = "file"
	SessionDriverRedis    = "redis"
	SessionDriverPostgres = "postgres"
)

// SessionConfig configuración del almacenamiento por visitante.
type SessionConfig struct {
	Driver      string
	CookieName  string
	FilePath    string
	SecretKey   string // material de clave para el driver file
	IdleMinutes int
	SweepSpec   string // expresión cron para el barrido de visitantes inactivos
}

// IdleTimeout tiempo sin actividad tras el cual un visitante se descarta de memoria.
func (c SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleMinutes) * time.Minute
}

// RedisConfig conexión a Redis (driver redis).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig configuración de PostgreSQL (driver postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// NotifyConfig duración de las notificaciones (los errores duran más que los éxitos).
type NotifyConfig struct {
	SuccessSeconds int
	ErrorSeconds   int
}

// LoginConfig límite de intentos de login por visitante.
type LoginConfig struct {
	PerMinute int
	Burst     int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, SESSION_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "petshop-storefront"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			PublicURL: strings.TrimRight(getString(v, "APP_PUBLIC_URL", ""), "/"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 3000),
			SwaggerFile: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(getString(v, "API_BASE_URL", "http://localhost:8080/api"), "/"),
			TimeoutSeconds: getInt(v, "API_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			Driver:      strings.ToLower(getString(v, "SESSION_DRIVER", SessionDriverMemory)),
			CookieName:  getString(v, "SESSION_COOKIE", "petshop_sid"),
			FilePath:    getString(v, "SESSION_FILE_PATH", "./data/sessions.json"),
			SecretKey:   getString(v, "SESSION_SECRET", ""),
			IdleMinutes: getInt(v, "SESSION_IDLE_MINUTES", 60),
			SweepSpec:   getString(v, "SESSION_SWEEP_SPEC", "@every 5m"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "petshop_storefront"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Notify: NotifyConfig{
			SuccessSeconds: getInt(v, "NOTIFY_SUCCESS_SECONDS", 3),
			ErrorSeconds:   getInt(v, "NOTIFY_ERROR_SECONDS", 6),
		},
		Login: LoginConfig{
			PerMinute: getInt(v, "LOGIN_PER_MINUTE", 5),
			Burst:     getInt(v, "LOGIN_BURST", 3),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Driver {
	case SessionDriverMemory, SessionDriverRedis, SessionDriverPostgres:
	case SessionDriverFile:
		if c.Session.SecretKey == "" {
			return fmt.Errorf("config: SESSION_SECRET requerido con SESSION_DRIVER=file")
		}
	default:
		return fmt.Errorf("config: SESSION_DRIVER desconocido %q", c.Session.Driver)
	}
	if c.Notify.ErrorSeconds < c.Notify.SuccessSeconds {
		return fmt.Errorf("config: NOTIFY_ERROR_SECONDS debe ser >= NOTIFY_SUCCESS_SECONDS")
	}
	return nil
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
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
