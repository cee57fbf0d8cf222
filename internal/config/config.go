// Package config loads the application configuration from a TOML file
// with environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when the config file omits a value.
const (
	DefaultGenerationModel  = "gemini-2.0-flash"
	DefaultEmbeddingModel   = "gemini-embedding-001"
	DefaultDataDir          = "data"
	DefaultHTTPAddr         = ":8000"
	DefaultChromaURL        = "http://localhost:8001"
	DefaultCollection       = "documents"
	DefaultRegistryBackend  = "jsonfile"
	DefaultIndexBackend     = "chroma"
	DefaultEmbedConcurrency = 4
	DefaultEmbedRPS         = 10
)

// Gemini holds Google AI API settings. The API key is never read from
// the TOML file; it comes from the GEMINI_API_KEY environment variable
// (optionally via a .env file).
type Gemini struct {
	APIKey          string  `toml:"-"`
	GenerationModel string  `toml:"generation_model"`
	EmbeddingModel  string  `toml:"embedding_model"`
	Temperature     float64 `toml:"temperature"`
	EmbedRPS        int     `toml:"embed_rps"`
}

// Storage selects the document registry backend and its location.
// Backend is one of "jsonfile", "sqlite" or "memory".
type Storage struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
}

// Vector selects the vector index backend. Backend is "chroma" or
// "memory".
type Vector struct {
	Backend    string `toml:"backend"`
	ChromaURL  string `toml:"chroma_url"`
	Collection string `toml:"collection"`
}

// Server holds the HTTP API settings.
type Server struct {
	Addr string `toml:"addr"`
}

// Ingest holds vectorization tuning.
type Ingest struct {
	EmbedConcurrency int `toml:"embed_concurrency"`
}

// Config is the full application configuration.
type Config struct {
	Gemini  Gemini  `toml:"gemini"`
	Storage Storage `toml:"storage"`
	Vector  Vector  `toml:"vector"`
	Server  Server  `toml:"server"`
	Ingest  Ingest  `toml:"ingest"`
}

// Default returns a configuration populated with defaults and the
// GEMINI_API_KEY from the environment.
func Default() *Config {
	cfg := &Config{
		Gemini: Gemini{
			GenerationModel: DefaultGenerationModel,
			EmbeddingModel:  DefaultEmbeddingModel,
			EmbedRPS:        DefaultEmbedRPS,
		},
		Storage: Storage{
			Backend: DefaultRegistryBackend,
			DataDir: DefaultDataDir,
		},
		Vector: Vector{
			Backend:    DefaultIndexBackend,
			ChromaURL:  DefaultChromaURL,
			Collection: DefaultCollection,
		},
		Server: Server{
			Addr: DefaultHTTPAddr,
		},
		Ingest: Ingest{
			EmbedConcurrency: DefaultEmbedConcurrency,
		},
	}
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	return cfg
}

// Load reads path (TOML) on top of the defaults. A missing file is not
// an error: the defaults stand. A .env file next to the config file, or
// in the working directory when path is empty, is loaded first so
// GEMINI_API_KEY can live there.
func Load(path string) (*Config, error) {
	loadDotenv(path)

	cfg := Default()
	if path == "" {
		path = "config.toml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// The environment always wins for the API key.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}

	return cfg, nil
}

// loadDotenv best-effort loads a .env file. godotenv never overrides
// variables that are already set.
func loadDotenv(configPath string) {
	candidates := []string{".env"}
	if configPath != "" {
		candidates = append([]string{filepath.Join(filepath.Dir(configPath), ".env")}, candidates...)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// DocumentsDir returns the directory where uploaded document files are
// kept.
func (c *Config) DocumentsDir() string {
	return filepath.Join(c.Storage.DataDir, "documents")
}

// RegistryPath returns the path of the registry file for file-backed
// backends.
func (c *Config) RegistryPath() string {
	switch c.Storage.Backend {
	case "sqlite":
		return filepath.Join(c.Storage.DataDir, "registry.db")
	default:
		return filepath.Join(c.Storage.DataDir, "registry.json")
	}
}
