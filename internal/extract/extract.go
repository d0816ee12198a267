package extract

import (
	"context"
	"errors"
	"io"
)

// Package extract converts uploaded PDF byte streams into plain text. The
// parsing itself is an external capability behind the Extractor interface so
// services and tests never touch a PDF library directly.

// ErrUnparseable reports that the byte stream is not a parseable PDF.
var ErrUnparseable = errors.New("not a parseable PDF")

// Extractor extracts the concatenated plain text of all pages, in page
// order. Extraction is best-effort: a page that yields no text contributes
// nothing, without failing the whole document.
type Extractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}
