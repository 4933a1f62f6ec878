package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/null-create/toolwatch/pkg/store"
	"github.com/null-create/toolwatch/pkg/toolwatch"
)

// Config holds the global settings, loaded from environment variables.
type Config struct {
	ServerPort string // (OPTIONAL) API server port. defaults to 8080
	StateDir   string // (OPTIONAL) baseline/alert state directory. defaults to ~/.toolwatch

	RedisAddr     string // (OPTIONAL) shared baseline cache address. empty disables the cache
	RedisPassword string
	MongoURI      string // (OPTIONAL) alert archive URI. empty disables the archive

	TLSEnabled  bool   // whether the API server has TLS enabled
	TLSCertFile string // (OPTIONAL) path to server.crt file if TLS is enabled
	TLSKeyFile  string // (OPTIONAL) path to server.key file if TLS is enabled
}

// LoadConfig loads the global configurations from environment variables.
func LoadConfig() Config {
	serverPort := os.Getenv("TOOLWATCH_SERVER_PORT")
	if serverPort == "" {
		log.Print("WARNING TOOLWATCH_SERVER_PORT env var not set. Using default port 8080")
		serverPort = "8080"
	}

	stateDir := os.Getenv("TOOLWATCH_STATE_DIR")
	if stateDir == "" {
		stateDir = store.DefaultDir()
	}

	certFile := os.Getenv("TOOLWATCH_TLS_CERT_FILE")
	keyFile := os.Getenv("TOOLWATCH_TLS_KEY_FILE")

	return Config{
		ServerPort:    serverPort,
		StateDir:      stateDir,
		RedisAddr:     os.Getenv("TOOLWATCH_REDIS_ADDR"),
		RedisPassword: os.Getenv("TOOLWATCH_REDIS_PASSWORD"),
		MongoURI:      os.Getenv("TOOLWATCH_MONGO_URI"),
		TLSEnabled:    certFile != "" && keyFile != "",
		TLSCertFile:   certFile,
		TLSKeyFile:    keyFile,
	}
}

// LoadWatchConfig reads a WatchConfig from watch.json in the state
// directory. A missing file yields the defaults; unset fields fall back
// to the default values.
func LoadWatchConfig(stateDir string) (toolwatch.WatchConfig, error) {
	cfg := toolwatch.DefaultWatchConfig()

	data, err := os.ReadFile(filepath.Join(stateDir, "watch.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read watch config: %w", err)
	}

	var loaded toolwatch.WatchConfig
	if err := json.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parse watch config: %w", err)
	}

	if loaded.Tools != nil {
		cfg.Tools = loaded.Tools
	}
	if loaded.CheckIntervalSeconds > 0 {
		cfg.CheckIntervalSeconds = loaded.CheckIntervalSeconds
	}
	if loaded.AlertOn != nil {
		cfg.AlertOn = loaded.AlertOn
	}
	return cfg, nil
}
