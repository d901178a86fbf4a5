package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

// PredictionTuning carries the pipeline constants the original hard-coded.
// Defaults mirror the observed values; config.yaml can override them.
type PredictionTuning struct {
	LookbackDays          int     `yaml:"LOOKBACK_DAYS"`
	MaxEvents             int     `yaml:"MAX_EVENTS"`
	MinEvents             int     `yaml:"MIN_EVENTS"`
	TargetSupplyDays      float64 `yaml:"TARGET_SUPPLY_DAYS"`
	DairySupplyCapDays    float64 `yaml:"DAIRY_SUPPLY_CAP_DAYS"`
	StapleSupplyFloorDays float64 `yaml:"STAPLE_SUPPLY_FLOOR_DAYS"`
	BulkThreshold         float64 `yaml:"BULK_THRESHOLD"`
	BulkDiscount          float64 `yaml:"BULK_DISCOUNT"`
	ReorderLeadDays       float64 `yaml:"REORDER_LEAD_DAYS"`
	EnsembleSeed          int64   `yaml:"ENSEMBLE_SEED"`
}

type Config struct {
	// Server configuration
	Port string `yaml:"PORT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Midtrans configuration
	ClientKey string `yaml:"CLIENT_KEY"`
	ServerKey string `yaml:"SERVER_KEY"`
	IsProd    bool   `yaml:"IsProd"`

	// Subscription pricing (monthly / yearly, in IDR)
	ProMonthlyPrice int64 `yaml:"PRO_MONTHLY_PRICE"`
	ProYearlyPrice  int64 `yaml:"PRO_YEARLY_PRICE"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Prediction pipeline tunables
	Prediction PredictionTuning `yaml:"PREDICTION"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("SERVER_KEY", config.ServerKey)
	os.Setenv("CLIENT_KEY", config.ClientKey)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
}

// DefaultPredictionTuning returns the pipeline constants the original used.
func DefaultPredictionTuning() PredictionTuning {
	return PredictionTuning{
		LookbackDays:          90,
		MaxEvents:             100,
		MinEvents:             3,
		TargetSupplyDays:      21,
		DairySupplyCapDays:    14,
		StapleSupplyFloorDays: 30,
		BulkThreshold:         10,
		BulkDiscount:          0.15,
		ReorderLeadDays:       3,
		EnsembleSeed:          42,
	}
}

// GetPredictionTuning returns the configured tunables, falling back to
// defaults for zero-valued fields.
func GetPredictionTuning() PredictionTuning {
	t := config.Prediction
	d := DefaultPredictionTuning()
	if t.LookbackDays <= 0 {
		t.LookbackDays = d.LookbackDays
	}
	if t.MaxEvents <= 0 {
		t.MaxEvents = d.MaxEvents
	}
	if t.MinEvents <= 0 {
		t.MinEvents = d.MinEvents
	}
	if t.TargetSupplyDays <= 0 {
		t.TargetSupplyDays = d.TargetSupplyDays
	}
	if t.DairySupplyCapDays <= 0 {
		t.DairySupplyCapDays = d.DairySupplyCapDays
	}
	if t.StapleSupplyFloorDays <= 0 {
		t.StapleSupplyFloorDays = d.StapleSupplyFloorDays
	}
	if t.BulkThreshold <= 0 {
		t.BulkThreshold = d.BulkThreshold
	}
	if t.BulkDiscount <= 0 {
		t.BulkDiscount = d.BulkDiscount
	}
	if t.ReorderLeadDays <= 0 {
		t.ReorderLeadDays = d.ReorderLeadDays
	}
	if t.EnsembleSeed == 0 {
		t.EnsembleSeed = d.EnsembleSeed
	}
	return t
}

func GetConfig(key string) string {
	switch key {
	case "PORT":
		return config.Port
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "CLIENT_KEY":
		return config.ClientKey
	case "SERVER_KEY":
		return config.ServerKey
	case "IsProd":
		if config.IsProd {
			return "true"
		}
		return "false"
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

// GetProPrice returns the gross amount for the given plan length in months.
func GetProPrice(months int) (int64, bool) {
	switch months {
	case 1:
		if config.ProMonthlyPrice > 0 {
			return config.ProMonthlyPrice, true
		}
		return 49000, true
	case 12:
		if config.ProYearlyPrice > 0 {
			return config.ProYearlyPrice, true
		}
		return 490000, true
	default:
		return 0, false
	}
}
