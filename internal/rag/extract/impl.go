package extract

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// every extension ClassifyPath accepts must have a decoder registered
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

func extractPDF(path string, logger *logger_i.Logger) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := f.NumPage()
	extracted := 0
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page, logger)
		if err != nil {
			// keep going, other pages may still be readable
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
		extracted++
	}

	if extracted == 0 {
		return "", fmt.Errorf("no readable pages in pdf (%d pages total)", numPages)
	}
	return sb.String(), nil
}

// File reads a .odt, .docx, .rtf or plaintext file and returns the content
func extractDocument(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract document: %w", err)
	}
	return text, nil
}

// describeImage reports dimensions and format only; pixel analysis is the
// vision model's job.
func describeImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	return fmt.Sprintf("Image analysis: %dx%d %s image.", cfg.Width, cfg.Height, strings.ToUpper(format)), nil
}

// protectExtract guards against malformed pages that hang the pdf parser.
func protectExtract(page pdf.Page, logger *logger_i.Logger) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout", true)
		return "", errors.New("timeout")
	}
}
