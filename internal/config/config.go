package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	ServiceName string
	HTTPAddr    string
	LogLevel    string

	DatabaseURL string

	SecretKey      []byte
	Algorithm      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	CORSOrigins   []string
	StaticDir     string
	PublicBaseURL string

	StorageBackend string
	MaxImageBytes  int64
	S3             S3Config

	KafkaBrokers []string

	ES ESConfig
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

type ESConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

// Load reads the optional env files and then the process environment.
// The result is built once at startup and must not be mutated afterwards.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		log.Printf("notice: env file not loaded: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "content_backend"),
		HTTPAddr:    EnvDefault("HTTP_ADDR", ":8000"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SecretKey:      []byte(os.Getenv("SECRET_KEY")),
		Algorithm:      strings.ToUpper(strings.TrimSpace(os.Getenv("ALGORITHM"))),
		AccessTokenTTL: time.Duration(EnvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		BcryptCost:     EnvIntDefault("BCRYPT_COST", bcrypt.DefaultCost),

		CORSOrigins:   CSV(EnvDefault("CORS_ORIGINS", "*")),
		StaticDir:     EnvDefault("STATIC_DIR", "static"),
		PublicBaseURL: strings.TrimRight(EnvDefault("PUBLIC_BASE_URL", "http://127.0.0.1:8000"), "/"),

		StorageBackend: strings.ToLower(EnvDefault("STORAGE_BACKEND", StorageLocal)),
		MaxImageBytes:  int64(EnvIntDefault("MAX_IMAGE_BYTES", 5<<20)),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    EnvDefault("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		},

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ES: ESConfig{
			URL:      os.Getenv("ES_URL"),
			User:     os.Getenv("ES_USER"),
			Password: os.Getenv("ES_PASSWORD"),
			Index:    EnvDefault("ES_INDEX", "blogs"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := NonEmptyBytes(c.SecretKey, "SECRET_KEY"); err != nil {
		errs = append(errs, err)
	}
	if err := NonEmpty(c.Algorithm, "ALGORITHM"); err != nil {
		errs = append(errs, err)
	} else if _, ok := supportedAlgorithms[c.Algorithm]; !ok {
		errs = append(errs, fmt.Errorf("unsupported ALGORITHM %q", c.Algorithm))
	}
	if err := NonEmpty(c.DatabaseURL, "DATABASE_URL"); err != nil {
		errs = append(errs, err)
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when STORAGE_BACKEND=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend))
	}
	return errors.Join(errs...)
}
