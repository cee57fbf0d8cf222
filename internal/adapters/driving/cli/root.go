// Package cli implements the ragpoc command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	embeddinggemini "github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driven/embedding/gemini"
	llmgemini "github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driven/llm/gemini"
	storagejson "github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driven/storage/jsonfile"
	storagemem "github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driven/storage/memory"
	storagesqlite "github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driven/storage/sqlite"
	indexchroma "github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driven/vectorindex/chroma"
	indexmem "github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driven/vectorindex/memory"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/config"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/services"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagVerbose bool
	flagConfig  string
)

// Services shared by the subcommands, wired in initServices.
var (
	cfg             *config.Config
	documentService driving.DocumentService
	queryService    driving.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "ragpoc",
	Short: "A retrieval-augmented generation pipeline for text documents",
	Long: `ragpoc manages a small RAG pipeline: upload plain-text documents,
vectorize them into a searchable index, and answer questions grounded
in the indexed content using the Gemini API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if documentService != nil {
			// Already wired (tests inject their own services).
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices loads the configuration and wires the service graph.
// The Gemini-backed services stay nil without an API key; commands
// that need them report that explicitly.
func initServices() error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	index := newVectorIndex(cfg)

	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; vectorize, query, chat and serve are unavailable")
		documentService = services.NewDocumentService(registry, index, nil)
		return nil
	}

	embedder, err := embeddinggemini.NewEmbeddingService(embeddinggemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.EmbeddingModel,
		RequestsPerSecond: cfg.Gemini.EmbedRPS,
	})
	if err != nil {
		return fmt.Errorf("configuring embedding service: %w", err)
	}

	generator, err := llmgemini.NewGenerationService(llmgemini.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.GenerationModel,
	})
	if err != nil {
		return fmt.Errorf("configuring generation service: %w", err)
	}

	documentService = services.NewDocumentService(registry, index, embedder,
		services.WithEmbedConcurrency(cfg.Ingest.EmbedConcurrency))
	queryService = services.NewQueryService(embedder, index, generator)
	return nil
}

// newRegistry builds the configured document registry backend.
func newRegistry(cfg *config.Config) (driven.DocumentRegistry, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return storagesqlite.NewRegistry(cfg.RegistryPath())
	case "memory":
		return storagemem.NewRegistry(), nil
	case "jsonfile", "":
		return storagejson.NewRegistry(cfg.RegistryPath(), cfg.DocumentsDir())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newVectorIndex builds the configured vector index backend.
func newVectorIndex(cfg *config.Config) driven.VectorIndex {
	if cfg.Vector.Backend == "memory" {
		return indexmem.NewIndex()
	}
	return indexchroma.NewIndex(indexchroma.Config{
		BaseURL:    cfg.Vector.ChromaURL,
		Collection: cfg.Vector.Collection,
	})
}

// requireQueryService guards commands that need the Gemini stack.
func requireQueryService() error {
	if queryService == nil {
		return fmt.Errorf("query service not configured: set GEMINI_API_KEY")
	}
	return nil
}
