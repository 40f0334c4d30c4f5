package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"browser-task/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

// EnvService reads configuration from the process environment after loading
// .env and .env.<APP_ENV> files from the working directory.
type EnvService struct {
	lookup func(string) (string, bool)
}

func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file found (this is OK for CI/CD)")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	log.Printf("Environment loaded: APP_ENV=%s", appEnv)

	return &EnvService{lookup: os.LookupEnv}
}

// NewFromMap is used by tests and by callers that already hold the values.
func NewFromMap(values map[string]string) *EnvService {
	return &EnvService{lookup: func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}}
}

// NewFromFile parses a dotenv file without touching the process environment.
func NewFromFile(path string) (*EnvService, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewFromMap(values), nil
}

func (e *EnvService) Get(key string) string {
	val, _ := e.lookup(key)
	return val
}

func (e *EnvService) Lookup(key string) (string, bool) {
	return e.lookup(key)
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDuration accepts Go durations ("1500ms", "10s") or a bare number of seconds.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}
