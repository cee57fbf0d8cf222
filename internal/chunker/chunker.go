// Package chunker provides a fixed-size sliding-window text chunker.
//
// Chunk boundaries are measured in characters (Unicode code points), not
// bytes, so multi-byte text chunks at the same positions as its visible
// length suggests.
package chunker

import (
	"fmt"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 50

// Validate checks chunk parameters. chunkSize must be positive and
// overlap must be in [0, chunkSize).
func Validate(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d",
			domain.ErrInvalidParameter, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size), got %d",
			domain.ErrInvalidParameter, overlap)
	}
	return nil
}

// Split divides text into overlapping chunks. Starting at offset 0 it
// emits windows of chunkSize characters, advancing by chunkSize-overlap
// until the window reaches the end of the text; the final chunk may be
// shorter. Every character appears in at least one chunk, consecutive
// chunks overlap by exactly overlap characters (except possibly the
// last), and empty input yields no chunks.
//
// Split is pure: identical inputs always produce the identical sequence.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if err := Validate(chunkSize, overlap); err != nil {
		return nil, err
	}

	runes := []rune(text)
	length := len(runes)
	if length == 0 {
		return nil, nil
	}

	chunks := make([]string, 0, length/(chunkSize-overlap)+1)
	start := 0
	for start < length {
		end := start + chunkSize
		if end >= length {
			chunks = append(chunks, string(runes[start:length]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end - overlap
	}

	return chunks, nil
}
