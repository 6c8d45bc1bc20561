package utils

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Server
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`
	LogLevel     string `yaml:"LOG_LEVEL"`
	LogFormat    string `yaml:"LOG_FORMAT"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Redis cache for the tag catalog, disabled when empty
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

var defaults = map[string]string{
	"APP_PORT":       "8000",
	"RATE_LIMIT_MAX": "10",
	"LOG_LEVEL":      "info",
	"LOG_FORMAT":     "json",
	"DB_PORT":        "5432",
}

// LoadConfig reads config.yaml and a .env file if present. Environment
// variables take precedence over values from the YAML file.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	if v := fromFile(key); v != "" {
		return v
	}
	return defaults[key]
}

func GetConfigInt(key string) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return 0
	}
	return n
}

// fromFile looks key up by the yaml tag of the loaded Config. Zero values
// count as unset.
func fromFile(key string) string {
	v := reflect.ValueOf(config)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("yaml") != key {
			continue
		}
		field := v.Field(i)
		if field.IsZero() {
			return ""
		}
		return fmt.Sprint(field.Interface())
	}
	return ""
}
