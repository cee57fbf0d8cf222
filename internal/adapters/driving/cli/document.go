package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
)

var (
	vectorizeChunkSize    int
	vectorizeChunkOverlap int

	listStatus string
	listLimit  int
	listOffset int
	listJSON   bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload text documents",
	Long: `Registers one or more plain-text files as pending documents.
Uploaded documents must be vectorized before they are searchable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var vectorizeCmd = &cobra.Command{
	Use:   "vectorize [document-id]",
	Short: "Chunk, embed and index a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runVectorize,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	vectorizeCmd.Flags().IntVar(&vectorizeChunkSize, "chunk-size", 0,
		fmt.Sprintf("chunk size in characters (default %d)", driving.DefaultChunkSize))
	vectorizeCmd.Flags().IntVar(&vectorizeChunkOverlap, "chunk-overlap", 0,
		fmt.Sprintf("overlap between chunks (default %d)", driving.DefaultChunkOverlap))

	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending, processed, error)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0,
		fmt.Sprintf("maximum number of documents (default %d)", driving.DefaultListLimit))
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of documents to skip")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(vectorizeCmd)
	rootCmd.AddCommand(listCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		doc, err := documentService.Upload(cmd.Context(), filepath.Base(path), content)
		if err != nil {
			return fmt.Errorf("uploading %s: %w", path, err)
		}
		cmd.Printf("Uploaded %s as %s (status: %s)\n", doc.Filename, doc.ID, doc.Status)
	}
	return nil
}

func runVectorize(cmd *cobra.Command, args []string) error {
	if err := requireQueryService(); err != nil {
		return err
	}

	opts := driving.VectorizeOptions{ChunkSize: vectorizeChunkSize}
	if cmd.Flags().Changed("chunk-overlap") {
		opts.ChunkOverlap = &vectorizeChunkOverlap
	}

	result, err := documentService.Vectorize(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("vectorize failed: %w", err)
	}

	cmd.Printf("Document %s: %d chunks indexed with %s (dimension %d)\n",
		result.DocumentID, result.ChunksCreated, result.EmbeddingModel, result.EmbeddingDimension)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	opts := driving.ListOptions{
		Limit:  listLimit,
		Offset: listOffset,
	}
	if listStatus != "" {
		status := domain.Status(listStatus)
		opts.Status = &status
	}

	page, err := documentService.List(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal listing: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(page.Documents) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Printf("Documents (%d total):\n\n", page.Total)
	for _, entry := range page.Documents {
		cmd.Printf("  %s  %-10s  chunks=%-4d  %s\n",
			entry.ID, entry.Status, entry.ChunkCount, entry.Filename)
	}
	return nil
}
