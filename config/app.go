package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" default:"25"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS" default:"24"`
	Env         string `env:"APP_ENV" default:"dev"`
	CORSOrigin  string `env:"CORS_ORIGIN" default:"*"`

	// AllowedEmailDomains restricts registration to campus addresses.
	AllowedEmailDomains []string `env:"ALLOWED_EMAIL_DOMAINS" default:"spelman.edu,morehouse.edu"`

	Supabase Supabase
	Square   Square
	Storage  Storage
	SMTP     SMTP
}

type Supabase struct {
	URL            string `env:"SUPABASE_URL"`
	ServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
}

type Square struct {
	AccessToken string `env:"SQUARE_ACCESS_TOKEN"`
	Environment string `env:"SQUARE_ENVIRONMENT" default:"sandbox"`
	Currency    string `env:"SQUARE_CURRENCY" default:"USD"`
}

type Storage struct {
	Endpoint        string `env:"STORAGE_ENDPOINT"`
	Region          string `env:"STORAGE_REGION" default:"us-east-1"`
	AccessKeyID     string `env:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"STORAGE_SECRET_ACCESS_KEY"`
	Bucket          string `env:"STORAGE_BUCKET" default:"clothing-images"`
	PublicURL       string `env:"STORAGE_PUBLIC_URL"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" default:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}
