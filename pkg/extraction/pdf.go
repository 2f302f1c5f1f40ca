// Package extraction turns uploaded wine list documents into structured
// wine records.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/tracing"
)

// ExtractPDFText pulls the plain text out of a PDF document, page by page.
// Pages whose text cannot be decoded are skipped rather than failing the
// whole document; wine list PDFs often mix scanned and text pages.
func ExtractPDFText(ctx context.Context, data []byte) (string, error) {
	_, span := tracing.StartSpan(ctx, "extraction.ExtractPDFText")
	defer span.End()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("no extractable text in pdf")
	}
	return out, nil
}
