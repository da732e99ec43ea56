package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	MediaCloudinary = "cloudinary"
	MediaMinio      = "minio"

	// DevAuthSecret подставляется, если AUTH_SECRET не задан. Годится только для разработки.
	DevAuthSecret = "dev-secret-key"
)

// ErrDefaultSecret — production запущен с общеизвестным ключом подписи токенов.
var ErrDefaultSecret = errors.New("AUTH_SECRET must be set in production")

type Config struct {
	// Server-side settings
	AppEnv            string        `env:"APP_ENV"`
	DatabaseDSN       string        `env:"DATABASE_URI"`
	AuthSecret        string        `env:"AUTH_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL"`
	AllowRegistration string        `env:"ALLOW_REGISTRATION"` // "", "true", "false"
	CORSOrigins       string        `env:"CORS_ORIGINS"`

	// Media store
	MediaBackend string        `env:"MEDIA_BACKEND"`
	MediaFolder  string        `env:"MEDIA_FOLDER"`
	MediaMaxMB   int           `env:"MEDIA_MAX_MB"`
	MediaGrace   time.Duration `env:"MEDIA_SWEEP_GRACE"`
	Cloudinary   CloudinaryConfig
	Minio        MinioConfig

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// galleryctl settings
	ServerURL string `env:"SERVER_URL"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show version and exit (flag only)
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL"`
	// PublicURL — внешний адрес, с которого раздаются объекты (CDN или сам MinIO).
	PublicURL string `env:"MINIO_PUBLIC_URL"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	allowRegistration, parseErr := strconv.ParseBool(strings.TrimSpace(cfg.AllowRegistration))
	registrationSet := parseErr == nil

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.AppEnv, "env", cfg.AppEnv, "окружение: development | production")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или sqlite file:)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "время жизни токена")
	flag.BoolVar(&allowRegistration, "allow-register", allowRegistration, "разрешить POST /api/auth/register")
	flag.StringVar(&cfg.CORSOrigins, "cors", cfg.CORSOrigins, "разрешённые CORS origins через запятую")
	// Media flags
	flag.StringVar(&cfg.MediaBackend, "media", cfg.MediaBackend, "media backend: cloudinary | minio")
	flag.StringVar(&cfg.MediaFolder, "media-folder", cfg.MediaFolder, "папка/префикс для изображений")
	flag.IntVar(&cfg.MediaMaxMB, "media-max-mb", cfg.MediaMaxMB, "максимальный размер изображения, MB")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "listen address of the server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "galleryctl: server URL")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "galleryctl: path to auth token file")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "allow-register" {
			registrationSet = true
		}
	})

	// Defaults
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.AppEnv != EnvProduction {
		cfg.AppEnv = EnvDevelopment
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "file:gallerist.db"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = DevAuthSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	// регистрация по умолчанию закрыта в production
	if !registrationSet {
		allowRegistration = cfg.AppEnv != EnvProduction
	}
	cfg.AllowRegistration = strconv.FormatBool(allowRegistration)
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	cfg.MediaBackend = strings.ToLower(strings.TrimSpace(cfg.MediaBackend))
	if cfg.MediaBackend != MediaMinio {
		cfg.MediaBackend = MediaCloudinary
	}
	if cfg.MediaFolder == "" {
		cfg.MediaFolder = "subline-gallery"
	}
	if cfg.MediaMaxMB <= 0 {
		cfg.MediaMaxMB = 5
	}
	if cfg.MediaGrace <= 0 {
		cfg.MediaGrace = time.Hour
	}
	if cfg.Minio.Bucket == "" {
		cfg.Minio.Bucket = "gallery"
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}

	if cfg.ServerURL == "" {
		if cfg.EnableHTTPS {
			cfg.ServerURL = "https://" + cfg.BaseURL
		} else {
			cfg.ServerURL = "http://" + cfg.BaseURL
		}
	}

	if cfg.TokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.TokenFile = filepath.Join(dir, "Gallerist", "auth_token")
		} else {
			home, _ := os.UserHomeDir()
			cfg.TokenFile = filepath.Join(home, ".gallerist_token")
		}
	}

	return cfg
}

// IsProduction сообщает, что детали ошибок нельзя отдавать клиенту.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Validate проверяет настройки, без которых сервер нельзя запускать.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.AuthSecret == "" || c.AuthSecret == DevAuthSecret) {
		return ErrDefaultSecret
	}
	return nil
}

// RegistrationEnabled возвращает итоговое значение флага регистрации.
func (c *Config) RegistrationEnabled() bool {
	ok, _ := strconv.ParseBool(c.AllowRegistration)
	return ok
}

// MediaMaxBytes — лимит размера загружаемого изображения в байтах.
func (c *Config) MediaMaxBytes() int64 {
	return int64(c.MediaMaxMB) * 1024 * 1024
}

// Origins разбирает CORS_ORIGINS.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
