package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries everything the commands need to reach the store and serve
// the front-ends. Values come from, in increasing precedence: built-in
// defaults, an optional YAML file, a .env file, then process environment.
type Config struct {
	MongoURI    string   `yaml:"mongo_uri"`
	Database    string   `yaml:"database"`
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

const (
	defaultMongoURI = "mongodb://localhost:27017"
	defaultDatabase = "real_estate_db"
	defaultPort     = "8080"
)

// Load builds the configuration. path names an explicit YAML file and must
// exist when given; with an empty path a config.yaml next to the binary is
// picked up when present and skipped otherwise.
func Load(path string) (Config, error) {
	cfg := Config{
		MongoURI: defaultMongoURI,
		Database: defaultDatabase,
		Port:     defaultPort,
	}

	explicit := path != ""
	if path == "" {
		path = "config.yaml"
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// .env is optional, like the original deployment's dotenv file.
	_ = godotenv.Load()

	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitOrigins(v)
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
