package services

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPDFStreamRejectsWrongMagic(t *testing.T) {
	body := strings.NewReader("this is plain text, not a pdf document")

	_, err := readPDFStream(body, 1<<20)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Reason, "%PDF")
}

func TestReadPDFStreamRejectsEmpty(t *testing.T) {
	_, err := readPDFStream(bytes.NewReader(nil), 1<<20)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestReadPDFStreamAcceptsPDFPrefix(t *testing.T) {
	payload := []byte("%PDF-1.7 rest of the document body")

	data, err := readPDFStream(bytes.NewReader(payload), 1<<20)

	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

// countingReader tracks how many bytes were consumed so the test can prove
// the cap fires mid-stream instead of after full buffering.
type countingReader struct {
	src  io.Reader
	read int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	r.read += int64(n)
	return n, err
}

func TestReadPDFStreamEnforcesCapWhileStreaming(t *testing.T) {
	const maxBytes = 64 * 1024
	payloadSize := int64(1 << 20)

	src := &countingReader{
		src: io.MultiReader(
			strings.NewReader("%PDF-1.4 "),
			io.LimitReader(neverEnding('a'), payloadSize),
		),
	}

	_, err := readPDFStream(src, maxBytes)

	var tooLargeErr *FileTooLargeError
	require.ErrorAs(t, err, &tooLargeErr)
	assert.Equal(t, int64(maxBytes), tooLargeErr.MaxBytes)
	assert.Less(t, src.read, payloadSize, "reader should stop once the cap is crossed")
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

func TestExtractPDFTextRejectsGarbage(t *testing.T) {
	_, err := ExtractPDFText([]byte("%PDF-1.4 but nothing else that parses"))

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}
