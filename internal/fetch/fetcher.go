// Package fetch retrieves the raw material for a notice: plain text from an
// announcement web page or PDF document.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

const (
	// maxBodyBytes caps how much of a response is read. Government PDFs
	// run large but anything past this is scanned images, not text.
	maxBodyBytes = 10 << 20
	defaultTimeout = 30 * time.Second
	userAgent      = "careerraah-ingestd/1.0"
)

// ErrEmptyDocument is returned when a fetch succeeded but produced no
// usable text.
var ErrEmptyDocument = errors.New("fetched document has no extractable text")

var whitespaceRuns = regexp.MustCompile(`[ \t]+`)
var blankLineRuns = regexp.MustCompile(`\n{3,}`)

// Fetcher downloads and extracts announcement content.
type Fetcher struct {
	client *http.Client
	log    logger.Logger
}

// New creates a content fetcher with the given per-request timeout.
func New(timeout time.Duration, log logger.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch downloads the notice URL and returns extracted text. PDF responses
// go through the PDF text extractor; everything else is treated as HTML.
// Errors are returned to the caller, which skips the notice.
func (f *Fetcher) Fetch(ctx context.Context, notice domain.Notice) (*domain.Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, notice.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", notice.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", notice.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if isPDF(notice.URL, resp.Header.Get("Content-Type")) {
		text, pdfErr := extractPDFText(body)
		if pdfErr != nil {
			return nil, fmt.Errorf("extract pdf text: %w", pdfErr)
		}
		return &domain.Content{RawText: text}, nil
	}

	text, htmlErr := extractHTMLText(body)
	if htmlErr != nil {
		return nil, fmt.Errorf("extract html text: %w", htmlErr)
	}

	return &domain.Content{RawText: text, HTMLContent: string(body)}, nil
}

func isPDF(url, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(url), ".pdf")
}

// extractHTMLText strips markup and script content and normalizes
// whitespace.
func extractHTMLText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()

	text := normalizeText(doc.Find("body").Text())
	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

// extractPDFText pulls the plain-text layer from a PDF.
func extractPDFText(body []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("copy pdf text: %w", err)
	}

	text := normalizeText(b.String())
	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(whitespaceRuns.ReplaceAllString(line, " "))
	}
	joined := strings.Join(lines, "\n")
	joined = blankLineRuns.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}
