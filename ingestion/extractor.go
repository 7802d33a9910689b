// Copyright 2025 Thadesh Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of a source document.
type Extractor interface {
	Extract(path string) (string, error)
}

// ForPath selects an extractor by file extension.
func ForPath(path string, logger *slog.Logger) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return &PDFExtractor{logger: logger}, nil
	case ".txt", ".md":
		return &TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// PDFExtractor extracts text from PDF documents page by page. Pages that
// cannot be parsed are skipped rather than failing the whole document;
// scanned government PDFs routinely contain a few malformed pages.
type PDFExtractor struct {
	logger *slog.Logger
}

var _ Extractor = (*PDFExtractor)(nil)

// Extract reads every page of the PDF and concatenates the page texts,
// each preceded by a page marker so chunk text retains its page context.
func (e *PDFExtractor) Extract(path string) (string, error) {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	skipped := 0
	for i := 1; i <= reader.NumPage(); i++ {
		text, err := extractPage(reader, i)
		if err != nil {
			skipped++
			logger.Warn("skipping unreadable pdf page", "page", i, "err", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n%s\n", i, text)
	}

	if skipped > 0 {
		logger.Info("pdf extraction finished with skipped pages",
			"pages", reader.NumPage(), "skipped", skipped)
	}

	result := sb.String()
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoText, path)
	}
	return result, nil
}

// extractPage pulls the plain text of a single page. The pdf library can
// panic on malformed content streams, so the panic is converted to an error
// here to keep a single bad page from aborting extraction.
func extractPage(reader *pdf.Reader, number int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page parse panic: %v", r)
		}
	}()

	page := reader.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", number)
	}
	return page.GetPlainText(nil)
}

// TextExtractor reads plain text documents (.txt, .md) verbatim.
type TextExtractor struct{}

var _ Extractor = (*TextExtractor)(nil)

func (e *TextExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoText, path)
	}
	return string(data), nil
}
