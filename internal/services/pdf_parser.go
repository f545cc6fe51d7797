package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF")

const readChunkSize = 32 * 1024

// FileTooLargeError marks the oversize case so handlers can answer 413
// instead of the generic 400.
type FileTooLargeError struct {
	MaxBytes int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file exceeds %d bytes", e.MaxBytes)
}

// ReadPDFUpload validates and buffers an uploaded resume PDF. Checks run
// cheapest first: extension, declared content type, then the body is
// streamed in chunks with the byte cap enforced on the running total and
// the %PDF magic checked on the first chunk. An oversized payload is
// rejected as soon as the total crosses the cap, not after full buffering.
func ReadPDFUpload(file *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, &ValidationError{Field: "resume_pdf", Reason: fmt.Sprintf("unsupported extension %q, upload a PDF", ext)}
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/pdf" {
		return nil, &ValidationError{Field: "resume_pdf", Reason: fmt.Sprintf("unsupported file type %q, upload a PDF", contentType)}
	}

	src, err := file.Open()
	if err != nil {
		return nil, &ValidationError{Field: "resume_pdf", Reason: "failed to open uploaded file"}
	}
	defer src.Close()

	return readPDFStream(src, maxBytes)
}

func readPDFStream(src io.Reader, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	checkedMagic := false

	for {
		n, err := src.Read(chunk)
		if n > 0 {
			if int64(buf.Len())+int64(n) > maxBytes {
				return nil, &FileTooLargeError{MaxBytes: maxBytes}
			}
			buf.Write(chunk[:n])

			if !checkedMagic && buf.Len() >= len(pdfMagic) {
				if !bytes.HasPrefix(buf.Bytes(), pdfMagic) {
					return nil, &ValidationError{Field: "resume_pdf", Reason: "file is not a PDF (missing %PDF header)"}
				}
				checkedMagic = true
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ValidationError{Field: "resume_pdf", Reason: "failed to read uploaded file"}
		}
	}

	if !checkedMagic {
		return nil, &ValidationError{Field: "resume_pdf", Reason: "file is not a PDF (missing %PDF header)"}
	}

	return buf.Bytes(), nil
}

// ExtractPDFText extracts plain text from raw PDF bytes. Pages that fail
// individually are skipped; a document with no extractable text at all is
// an ExtractionError. The pdf library panics on some corrupt files, so the
// whole pass is recovered into an ExtractionError.
func ExtractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Reason: fmt.Sprintf("corrupt PDF: %v", r)}
		}
	}()

	return extractPDFText(data)
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Reason: "failed to open PDF", Cause: err}
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", &ExtractionError{Reason: "PDF uploaded but no text could be extracted"}
	}

	return text, nil
}
