package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"kestrel/internal/support"
)

type Config struct {
	Extractor ExtractorConfig `json:"extractor"`
	Store     StoreConfig     `json:"store"`
	GeoLite   GeoLiteConfig   `json:"geolite"`
}

type ExtractorConfig struct {
	LogPath        string `json:"log_path"`
	ChunkSizeBytes int    `json:"chunk_size_bytes"`

	// Workers caps the chunk worker pool; 0 means one worker per CPU.
	Workers int `json:"workers"`

	ExtractTimer Timer `json:"extract_timer"`
}

type StoreConfig struct {
	URI               string `json:"uri"`
	Database          string `json:"database"`
	PrivateCollection string `json:"private_collection"`
	PublicCollection  string `json:"public_collection"`
}

type GeoLiteConfig struct {
	// DatabasePath points at a GeoLite2-Country.mmdb. Empty disables
	// country annotation.
	DatabasePath string `json:"database_path"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
)

func init() {
	configValue.Store(Config{})
}

// ReadSettings loads data/settings.json, creating it from the embedded
// defaults when missing. Parse failures leave the previous configuration in
// place so a broken edit never takes the daemon down.
func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			if err := os.MkdirAll("data", os.ModePerm); err != nil {
				log.Error("Error creating directory for settings file:", err)
				return
			}

			if err := os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm); err != nil {
				log.Error("Error writing default settings file:", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", err)
			return
		}
	}

	var newConfig Config
	if err := json.Unmarshal(data, &newConfig); err != nil {
		log.Error("Error unmarshalling settings file:", err)
		return
	}

	applyEnvOverrides(&newConfig)

	configValue.Store(newConfig)
	SetBetweenTime()

	log.Debug("Settings file loaded successfully")
}

func applyEnvOverrides(cfg *Config) {
	cfg.Store.URI = support.GetEnv("mongoUri", cfg.Store.URI)
	cfg.Extractor.LogPath = support.GetEnv("logPath", cfg.Extractor.LogPath)
	cfg.Extractor.ChunkSizeBytes = support.GetEnvInt("chunkSizeBytes", cfg.Extractor.ChunkSizeBytes)
}

func GetConfig() Config {
	return configValue.Load().(Config)
}
