package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Ledger settings
	BaseCurrency string

	// Control accounts used by invoice and payment postings
	CashAccountCode       string
	ReceivableAccountCode string
	PayableAccountCode    string
	RevenueSuspenseCode   string
	ExpenseSuspenseCode   string

	// PaymentTolerance is the fraction of an invoice total at which the
	// invoice counts as fully paid (absorbs FX rounding drift).
	PaymentTolerance float64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("CASH_ACCOUNT_CODE", "1000")
	viper.SetDefault("RECEIVABLE_ACCOUNT_CODE", "1100")
	viper.SetDefault("PAYABLE_ACCOUNT_CODE", "2000")
	viper.SetDefault("REVENUE_SUSPENSE_CODE", "4900")
	viper.SetDefault("EXPENSE_SUSPENSE_CODE", "5900")
	viper.SetDefault("PAYMENT_TOLERANCE", 0.99)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.CashAccountCode = viper.GetString("CASH_ACCOUNT_CODE")
	cfg.ReceivableAccountCode = viper.GetString("RECEIVABLE_ACCOUNT_CODE")
	cfg.PayableAccountCode = viper.GetString("PAYABLE_ACCOUNT_CODE")
	cfg.RevenueSuspenseCode = viper.GetString("REVENUE_SUSPENSE_CODE")
	cfg.ExpenseSuspenseCode = viper.GetString("EXPENSE_SUSPENSE_CODE")

	cfg.PaymentTolerance = viper.GetFloat64("PAYMENT_TOLERANCE")
	if cfg.PaymentTolerance <= 0 || cfg.PaymentTolerance > 1 {
		log.Printf("Warning: Invalid PAYMENT_TOLERANCE (%v). Defaulting to 0.99.\n", cfg.PaymentTolerance)
		cfg.PaymentTolerance = 0.99
	}

	return cfg, nil
}
