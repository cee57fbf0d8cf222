package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/adapters/driving/watcher"
)

var (
	watchDir       string
	watchVectorize bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory for new text files",
	Long: `Monitors a directory and uploads any .txt file dropped into it.
With --vectorize, documents are also indexed immediately.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "inbox", "directory to watch")
	watchCmd.Flags().BoolVar(&watchVectorize, "vectorize", false, "vectorize documents after upload")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watchVectorize {
		if err := requireQueryService(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(documentService, watchDir, watchVectorize)
	return w.Run(ctx)
}
