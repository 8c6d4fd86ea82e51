// Package config provides configuration for gyrobeam commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the server.
const (
	DefaultPort       = "8080"
	DefaultStaticDir  = "./web"
	DefaultSceneDir   = "./scenes"
	DefaultBufferSize = 3
)

// Config holds the server configuration, populated from environment
// variables with flag overrides applied by the command.
type Config struct {
	Port       string // HTTP/WebSocket listen port
	StaticDir  string // directory served at /
	SceneDir   string // directory for saved scene files
	MQTTBroker string // e.g. tcp://localhost:1883, empty disables the bridge
	MQTTClient string // MQTT client ID
	LogLevel   string // debug, info, warn, error
	BufferSize int    // sensor sample buffer capacity per stream
}

// FromEnv builds a Config from GYROBEAM_* environment variables,
// falling back to defaults.
func FromEnv() Config {
	return Config{
		Port:       envOr("GYROBEAM_PORT", DefaultPort),
		StaticDir:  envOr("GYROBEAM_STATIC_DIR", DefaultStaticDir),
		SceneDir:   envOr("GYROBEAM_SCENE_DIR", DefaultSceneDir),
		MQTTBroker: os.Getenv("GYROBEAM_MQTT_BROKER"),
		MQTTClient: envOr("GYROBEAM_MQTT_CLIENT_ID", "gyrobeam-server"),
		LogLevel:   envOr("GYROBEAM_LOG_LEVEL", "info"),
		BufferSize: envOrInt("GYROBEAM_BUFFER_SIZE", DefaultBufferSize),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
