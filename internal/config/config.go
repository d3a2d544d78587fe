package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	VerifyTTLRaw  string `yaml:"verify_ttl"`
	SessionTTLRaw string `yaml:"session_ttl"`

	// распарсенные значения, заполняются в LoadConfig
	VerifyTTL  time.Duration `yaml:"-"`
	SessionTTL time.Duration `yaml:"-"`
}

type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	// PublicBaseURL is the prefix object keys are appended to when building
	// the retrievable URL handed back to clients.
	PublicBaseURL string `yaml:"public_base_url"`
}

type FilesConfig struct {
	TmpDir string `yaml:"tmp_dir"`
}

type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"` // used in verification/reset links
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth  AuthConfig  `yaml:"auth"`
	S3    S3Config    `yaml:"s3"`
	Files FilesConfig `yaml:"files"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if s := os.Getenv("JWT_SECRET"); s != "" {
		cfg.Auth.JWTSecret = s
	}
	if cfg.Auth.JWTSecret == "" {
		panic("auth.jwt_secret is required")
	}
	cfg.Auth.VerifyTTL = parseTTL(cfg.Auth.VerifyTTLRaw, 300*time.Second)
	cfg.Auth.SessionTTL = parseTTL(cfg.Auth.SessionTTLRaw, 5*time.Hour)
	if cfg.Files.TmpDir == "" {
		cfg.Files.TmpDir = os.TempDir()
	}
	return &cfg
}

func parseTTL(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		panic("Failed to parse ttl " + raw + ": " + err.Error())
	}
	return d
}
