package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Store StoreConfig
	Authz AuthzConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StoreConfig selects the persistence backend. Driver "postgres" is the
// durable store; "memory" keeps everything in-process (data is lost on exit).
type StoreConfig struct {
	Driver        string
	MigrationsDir string
}

// AuthzConfig carries the doctor-match policy for appointment authorization:
// "owner" compares the acting user against the doctor profile's owning user,
// "profile" compares the acting user id against the doctor profile id itself.
type AuthzConfig struct {
	DoctorMatch string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running without a .env file is fine, env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		// Issued tokens stay valid for 30 days by default.
		accessExpiry = 30 * 24 * time.Hour
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 30 * 24 * time.Hour
	}

	storeDriver := viper.GetString("STORE_DRIVER")
	if storeDriver == "" {
		storeDriver = "postgres"
	}

	migrationsDir := viper.GetString("DB_MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "db/migrations"
	}

	doctorMatch := viper.GetString("AUTHZ_DOCTOR_MATCH")
	if doctorMatch == "" {
		doctorMatch = "owner"
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Store: StoreConfig{
			Driver:        storeDriver,
			MigrationsDir: migrationsDir,
		},
		Authz: AuthzConfig{
			DoctorMatch: doctorMatch,
		},
	}

	return config, nil
}
