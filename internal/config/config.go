package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Task ID policies
const (
	// IDPolicyClient requires the caller to supply every task ID
	IDPolicyClient = "client"
	IDPolicyUUID   = "uuid"
	IDPolicyShort  = "short"
)

type Config struct {
	DBDriver     string `yaml:"db_driver"`
	DBHost       string `yaml:"db_host"`
	DBPort       string `yaml:"db_port"`
	DBUser       string `yaml:"db_user"`
	DBPassword   string `yaml:"db_password"`
	DBName       string `yaml:"db_name"`
	DBPath       string `yaml:"db_path"`
	ServerPort   string `yaml:"server_port"`
	GinMode      string `yaml:"gin_mode"`
	LogLevel     string `yaml:"log_level"`
	TaskIDPolicy string `yaml:"task_id_policy"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
}

// Load reads the optional YAML file named by CONFIG_FILE, then lets
// environment variables override it.
func Load() (*Config, error) {
	file := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if file, err = loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		DBDriver:     getEnv("DB_DRIVER", orDefault(file.DBDriver, DriverMySQL)),
		DBHost:       getEnv("DB_HOST", orDefault(file.DBHost, "localhost")),
		DBPort:       getEnv("DB_PORT", orDefault(file.DBPort, "3306")),
		DBUser:       getEnv("DB_USER", orDefault(file.DBUser, "taskuser")),
		DBPassword:   getEnv("DB_PASSWORD", orDefault(file.DBPassword, "taskpassword")),
		DBName:       getEnv("DB_NAME", orDefault(file.DBName, "task_management")),
		DBPath:       getEnv("DB_PATH", orDefault(file.DBPath, "task_manager.db")),
		ServerPort:   getEnv("SERVER_PORT", orDefault(file.ServerPort, "8080")),
		GinMode:      getEnv("GIN_MODE", orDefault(file.GinMode, "debug")),
		LogLevel:     getEnv("LOG_LEVEL", orDefault(file.LogLevel, "info")),
		TaskIDPolicy: getEnv("TASK_ID_POLICY", orDefault(file.TaskIDPolicy, IDPolicyUUID)),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", file.OpenAIAPIKey),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", c.DBDriver)
	}

	switch c.TaskIDPolicy {
	case IDPolicyClient, IDPolicyUUID, IDPolicyShort:
	default:
		return fmt.Errorf("invalid TASK_ID_POLICY %q", c.TaskIDPolicy)
	}

	return nil
}

func loadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func orDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
