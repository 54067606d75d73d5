package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// Rate limit de login por IP. Max 0 = deshabilitado.
		LoginRateMax    int    `yaml:"login_rate_max"`
		LoginRateWindow string `yaml:"login_rate_window"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
		MySQL struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Mongo struct {
			URI      string `yaml:"uri"`
			Database string `yaml:"database"`
		} `yaml:"mongo"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Invitations struct {
		Secret    string `yaml:"secret"`
		TTL       string `yaml:"ttl"`
		AcceptURL string `yaml:"accept_url"`
	} `yaml:"invitations"`

	Auth struct {
		// Verificación de email de cuentas nuevas.
		VerifySecret string `yaml:"verify_secret"`
		VerifyTTL    string `yaml:"verify_ttl"`
		VerifyURL    string `yaml:"verify_url"`
	} `yaml:"auth"`

	Lifecycle struct {
		GracePeriod   string `yaml:"grace_period"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"lifecycle"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		TLS      string `yaml:"tls"` // auto | starttls | ssl | none
	} `yaml:"smtp"`

	Uploads struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"uploads"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Server.LoginRateWindow == "" {
		c.Server.LoginRateWindow = "1m"
	}
	if c.Invitations.TTL == "" {
		c.Invitations.TTL = "168h" // 7d
	}
	if c.Auth.VerifyTTL == "" {
		c.Auth.VerifyTTL = "72h"
	}
	if c.Lifecycle.GracePeriod == "" {
		c.Lifecycle.GracePeriod = "2160h" // 90d
	}
	if c.Lifecycle.SweepInterval == "" {
		c.Lifecycle.SweepInterval = "1h"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.Uploads.Bucket == "" {
		c.Uploads.Bucket = "related-files"
	}

	// Overrides por env
	c.applyEnvOverrides()

	// validate string durations
	for _, s := range []string{c.Invitations.TTL, c.Auth.VerifyTTL, c.Lifecycle.GracePeriod, c.Lifecycle.SweepInterval, c.Server.LoginRateWindow} {
		if s == "" {
			continue
		}
		if _, err := time.ParseDuration(s); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// InviteTTL devuelve el TTL de invitación ya parseado. Load valida el string,
// por lo que acá el error no puede ocurrir.
func (c *Config) InviteTTL() time.Duration {
	d, _ := time.ParseDuration(c.Invitations.TTL)
	return d
}

func (c *Config) VerifyTTL() time.Duration {
	d, _ := time.ParseDuration(c.Auth.VerifyTTL)
	return d
}

func (c *Config) GracePeriod() time.Duration {
	d, _ := time.ParseDuration(c.Lifecycle.GracePeriod)
	return d
}

func (c *Config) SweepInterval() time.Duration {
	d, _ := time.ParseDuration(c.Lifecycle.SweepInterval)
	return d
}

func (c *Config) LoginRateWindow() time.Duration {
	d, _ := time.ParseDuration(c.Server.LoginRateWindow)
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvInt("SERVER_LOGIN_RATE_MAX"); ok {
		c.Server.LoginRateMax = v
	}
	if v, ok := getEnvStr("SERVER_LOGIN_RATE_WINDOW"); ok {
		c.Server.LoginRateWindow = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	// Aliases for specific drivers
	if v, ok := getEnvStr("MYSQL_DSN"); ok {
		c.Storage.MySQL.DSN = v
	}
	if v, ok := getEnvStr("MONGO_URI"); ok {
		c.Storage.Mongo.URI = v
	}
	if v, ok := getEnvStr("MONGO_DATABASE"); ok {
		c.Storage.Mongo.Database = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// INVITATIONS
	if v, ok := getEnvStr("INVITE_SECRET"); ok {
		c.Invitations.Secret = v
	}
	if v, ok := getEnvStr("INVITE_TTL"); ok {
		c.Invitations.TTL = v
	}
	if v, ok := getEnvStr("INVITE_ACCEPT_URL"); ok {
		c.Invitations.AcceptURL = v
	}

	// AUTH
	if v, ok := getEnvStr("AUTH_VERIFY_SECRET"); ok {
		c.Auth.VerifySecret = v
	}
	if v, ok := getEnvStr("AUTH_VERIFY_TTL"); ok {
		c.Auth.VerifyTTL = v
	}
	if v, ok := getEnvStr("AUTH_VERIFY_URL"); ok {
		c.Auth.VerifyURL = v
	}

	// LIFECYCLE
	if v, ok := getEnvStr("LIFECYCLE_GRACE_PERIOD"); ok {
		c.Lifecycle.GracePeriod = v
	}
	if v, ok := getEnvStr("LIFECYCLE_SWEEP_INTERVAL"); ok {
		c.Lifecycle.SweepInterval = v
	}

	// FLAGS
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.SMTP.TLS = strings.ToLower(v) // auto|starttls|ssl|none
	}

	// UPLOADS (MinIO / S3 compatible)
	if v, ok := getEnvStr("UPLOADS_ENDPOINT"); ok {
		c.Uploads.Endpoint = v
	}
	if v, ok := getEnvStr("UPLOADS_ACCESS_KEY"); ok {
		c.Uploads.AccessKey = v
	}
	if v, ok := getEnvStr("UPLOADS_SECRET_KEY"); ok {
		c.Uploads.SecretKey = v
	}
	if v, ok := getEnvStr("UPLOADS_BUCKET"); ok {
		c.Uploads.Bucket = v
	}
	if v, ok := getEnvBool("UPLOADS_USE_SSL"); ok {
		c.Uploads.UseSSL = v
	}
}
