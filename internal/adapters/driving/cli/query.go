package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
)

var (
	queryTopK        int
	queryTemperature float64
	queryMaxTokens   int
	queryJSON        bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over the indexed documents",
	Long: `Answers a question using retrieval-augmented generation: the question
is embedded, the nearest chunks are retrieved from the vector index,
and a grounded answer is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", domain.DefaultTopK, "number of chunks to retrieve (1-20)")
	queryCmd.Flags().Float64VarP(&queryTemperature, "temperature", "t", domain.DefaultTemperature, "generation temperature (0.0-2.0)")
	queryCmd.Flags().IntVar(&queryMaxTokens, "max-tokens", domain.DefaultMaxTokens, "maximum answer length in tokens")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the full response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := requireQueryService(); err != nil {
		return err
	}

	resp, err := queryService.Answer(cmd.Context(), domain.QueryRequest{
		Question:    args[0],
		TopK:        queryTopK,
		Temperature: queryTemperature,
		MaxTokens:   queryMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	// Pipes get machine-readable output.
	if queryJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(resp.Answer)
	if len(resp.RetrievedChunks) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, chunk := range resp.RetrievedChunks {
			docID := "-"
			if chunk.DocumentID != nil {
				docID = *chunk.DocumentID
			}
			cmd.Printf("  [%d] chunk=%s document=%s score=%.3f\n", i+1, chunk.ChunkID, docID, chunk.SimilarityScore)
		}
	}
	return nil
}
