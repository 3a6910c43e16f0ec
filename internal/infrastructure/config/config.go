package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env      string
	Language string
	Server   ServerConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	Export   ExportConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port       string
	Host       string
	BaseURL    string // URL base da API para construir URIs RFC 7807
	TokenRate  float64
	TokenBurst int
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	AutoMigrate bool
}

// MongoConfig configura o banco de documentos (auditoria, perfis, documentos)
type MongoConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Timeout  time.Duration
}

type AuthConfig struct {
	DefaultAdminPassword string
	JWTSecret            string
	TokenTTL             time.Duration
}

type LoggingConfig struct {
	Level     string
	Output    string
	AuditFile string
}

// ExportConfig define onde os relatórios são gravados.
// Com S3Bucket definido, cada arquivo também é enviado ao bucket.
type ExportConfig struct {
	Dir       string
	S3Bucket  string
	S3Prefix  string
	AWSRegion string
}

type CORSConfig struct {
	AllowedOrigins string
}

var defaults = map[string]any{
	"ENV":                    "development",
	"APP_LANGUAGE":           "pt-BR",
	"HOST":                   "0.0.0.0",
	"PORT":                   "8080",
	"API_BASE_URL":           "http://localhost:8080",
	"API_TOKEN_RATE":         1.0,
	"API_TOKEN_BURST":        5,
	"DB_HOST":                "localhost",
	"DB_PORT":                5432,
	"DB_USER":                "postgres",
	"DB_PASS":                "",
	"DB_NAME":                "sistema_seguros",
	"DB_SSL_MODE":            "disable",
	"DB_MAX_CONNS":           10,
	"DB_MIN_CONNS":           2,
	"DB_MAX_IDLE_TIME":       300,
	"DB_AUTO_MIGRATE":        false,
	"MONGODB_HOST":           "localhost",
	"MONGODB_PORT":           27017,
	"MONGODB_DATABASE":       "sistema_seguros_logs",
	"MONGODB_USER":           "",
	"MONGODB_PASSWORD":       "",
	"MONGODB_TIMEOUT":        "5s",
	"ADMIN_DEFAULT_PASSWORD": "senha123",
	"JWT_SECRET":             "",
	"JWT_TTL":                "1h",
	"LOG_LEVEL":              "warn",
	"LOG_OUTPUT":             "stderr",
	"AUDIT_LOG_FILE":         "logs/auditoria.log",
	"EXPORT_DIR":             "export",
	"EXPORT_S3_BUCKET":       "",
	"EXPORT_S3_PREFIX":       "relatorios/",
	"AWS_REGION":             "us-east-1",
	"CORS_ALLOWED_ORIGINS":   "*",
}

// Load carrega as configurações do ambiente.
// Se envFile existir, suas variáveis são carregadas antes (sem sobrescrever o ambiente).
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	config := &Config{
		Env:      v.GetString("ENV"),
		Language: v.GetString("APP_LANGUAGE"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Mongo: MongoConfig{
			Host:     v.GetString("MONGODB_HOST"),
			Port:     v.GetInt("MONGODB_PORT"),
			Database: v.GetString("MONGODB_DATABASE"),
			User:     v.GetString("MONGODB_USER"),
			Password: v.GetString("MONGODB_PASSWORD"),
			Timeout:  v.GetDuration("MONGODB_TIMEOUT"),
		},
		Auth: AuthConfig{
			DefaultAdminPassword: v.GetString("ADMIN_DEFAULT_PASSWORD"),
			JWTSecret:            v.GetString("JWT_SECRET"),
			TokenTTL:             v.GetDuration("JWT_TTL"),
		},
		Logging: LoggingConfig{
			Level:     v.GetString("LOG_LEVEL"),
			Output:    v.GetString("LOG_OUTPUT"),
			AuditFile: v.GetString("AUDIT_LOG_FILE"),
		},
		Export: ExportConfig{
			Dir:       v.GetString("EXPORT_DIR"),
			S3Bucket:  v.GetString("EXPORT_S3_BUCKET"),
			S3Prefix:  v.GetString("EXPORT_S3_PREFIX"),
			AWSRegion: v.GetString("AWS_REGION"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica valores obrigatórios
func (c *Config) Validate() error {
	if c.Database.Port <= 0 {
		return fmt.Errorf("invalid DB_PORT: %d", c.Database.Port)
	}
	if strings.TrimSpace(c.Database.DBName) == "" {
		return errors.New("DB_NAME is required")
	}
	if c.Mongo.Port <= 0 {
		return fmt.Errorf("invalid MONGODB_PORT: %d", c.Mongo.Port)
	}
	if c.Mongo.Timeout <= 0 {
		return fmt.Errorf("invalid MONGODB_TIMEOUT: %s", c.Mongo.Timeout)
	}
	if c.Server.TokenRate <= 0 || c.Server.TokenBurst <= 0 {
		return fmt.Errorf("invalid API_TOKEN_RATE/API_TOKEN_BURST: %v/%d", c.Server.TokenRate, c.Server.TokenBurst)
	}
	return nil
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URI retorna a connection string do MongoDB.
// Credenciais só são incluídas quando usuário e senha estão definidos.
func (m *MongoConfig) URI() string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%d", m.Host, m.Port),
		Path:   "/",
	}
	if m.User != "" && m.Password != "" {
		u.User = url.UserPassword(m.User, m.Password)
	}
	return u.String()
}
