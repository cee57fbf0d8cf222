package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
)

func TestValidate_InvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -1, 0},
		{"negative overlap", 100, -1},
		{"overlap equals chunk size", 100, 100},
		{"overlap exceeds chunk size", 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.chunkSize, tt.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)

			chunks, err := Split("some text", tt.chunkSize, tt.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
			assert.Nil(t, chunks)
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	chunks, err := Split("", 500, 50)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_SingleChunkWhenTextFits(t *testing.T) {
	chunks, err := Split("hello world", 500, 50)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplit_MultibyteTextCountsCharacters(t *testing.T) {
	// 31 characters, far more bytes. Must still be a single chunk.
	text := "DevContainer は開発環境をコードとして管理します。"
	require.Equal(t, 31, len([]rune(text)))

	chunks, err := Split(text, 500, 50)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_WindowOffsets(t *testing.T) {
	// 1200 characters with size 500 / overlap 50 produce windows at
	// offsets 0, 450 and 900.
	text := strings.Repeat("a", 450) + strings.Repeat("b", 450) + strings.Repeat("c", 300)

	chunks, err := Split(text, 500, 50)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, text[0:500], chunks[0])
	assert.Equal(t, text[450:950], chunks[1])
	assert.Equal(t, text[900:1200], chunks[2])
	assert.Len(t, chunks[2], 300)
}

func TestSplit_OverlapIsExact(t *testing.T) {
	text := strings.Repeat("0123456789", 30) // 300 chars
	size, overlap := 100, 20

	chunks, err := Split(text, size, overlap)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		curr := []rune(chunks[i])
		// The tail of each chunk equals the head of the next.
		assert.Equal(t, string(prev[len(prev)-overlap:]), string(curr[:overlap]),
			"chunks %d and %d must overlap by exactly %d characters", i-1, i, overlap)
	}
}

func TestSplit_ReconstructsFullText(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("x", 499),
		strings.Repeat("x", 500),
		strings.Repeat("x", 501),
		strings.Repeat("abcdefghij", 123),
		"日本語テキスト。" + strings.Repeat("あいうえお", 200),
	}

	for _, text := range texts {
		chunks, err := Split(text, 500, 50)
		require.NoError(t, err)

		// Dropping each chunk's leading overlap reconstructs the input,
		// so no character is skipped or duplicated beyond the overlap.
		var b strings.Builder
		for i, c := range chunks {
			r := []rune(c)
			if i == 0 {
				b.WriteString(c)
				continue
			}
			b.WriteString(string(r[50:]))
		}
		assert.Equal(t, text, b.String())
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("determinism ", 200)

	first, err := Split(text, 123, 17)
	require.NoError(t, err)
	second, err := Split(text, 123, 17)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSplit_MinimalOverlapStep(t *testing.T) {
	// size 2 / overlap 1 advances one character at a time.
	chunks, err := Split("abcd", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "bc", "cd"}, chunks)
}
