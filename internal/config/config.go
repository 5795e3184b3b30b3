package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultAccessTokenTTL = 30 * time.Minute

// Config is built once at process start and passed by reference into the
// token service and persistence constructors.
type Config struct {
	AppName        string
	JwtKey         []byte
	AccessTokenTTL time.Duration
	SQLitePath     string
	DatabaseName   string
	Port           string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is not set in .env file")
	}

	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return nil, fmt.Errorf("DATABASE_NAME is not set in .env file")
	}

	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "Task Tracker API"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	tokenTTL := defaultAccessTokenTTL
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %q", v)
		}
		tokenTTL = time.Duration(minutes) * time.Minute
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		// Default to a data directory in the current directory
		sqlitePath = filepath.Join("data", fmt.Sprintf("%s.db", databaseName))
	}

	return &Config{
		AppName:        appName,
		JwtKey:         []byte(jwtSecret),
		AccessTokenTTL: tokenTTL,
		SQLitePath:     sqlitePath,
		DatabaseName:   databaseName,
		Port:           port,
	}, nil
}
