package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_RequiresQueryService(t *testing.T) {
	cleanup := setupTestServices(&fakeDocumentService{}, nil)
	defer cleanup()
	queryService = nil

	// The API exposes vectorize and query; without the Gemini stack
	// the server must refuse to start instead of serving handlers that
	// would fail on first use.
	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
