package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdf-translator/internal/logger"
)

// Extractor 负责解析 PDF 并按页提取分类后的元素
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Info returns basic information about a PDF file (page count, file size).
func (e *Extractor) Info(pdfPath string) (*PDFInfo, error) {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewPDFError(ErrPDFNotFound, "file does not exist: "+pdfPath, err)
		}
		return nil, NewPDFError(ErrPDFInvalid, "cannot access file: "+pdfPath, err)
	}
	if fileInfo.IsDir() {
		return nil, NewPDFError(ErrPDFInvalid, "path is a directory, not a file: "+pdfPath, nil)
	}

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, NewPDFError(ErrPDFInvalid, "cannot open PDF file: "+pdfPath, err)
	}
	defer f.Close()

	return &PDFInfo{
		FilePath:  pdfPath,
		FileName:  filepath.Base(pdfPath),
		PageCount: r.NumPage(),
		FileSize:  fileInfo.Size(),
	}, nil
}

// ExtractByPage walks every page's positioned layout and returns classified
// elements keyed by 1-based page number. A failure on one page yields zero
// elements for that page but never aborts the rest of the document; only a
// whole-document open failure is returned as an error.
func (e *Extractor) ExtractByPage(pdfPath string) (map[int][]PDFElement, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		if os.IsNotExist(err) {
			return nil, NewPDFError(ErrPDFNotFound, "file does not exist: "+pdfPath, err)
		}
		return nil, NewPDFError(ErrPDFInvalid, "cannot access file: "+pdfPath, err)
	}

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, NewPDFError(ErrPDFInvalid, "cannot open PDF file: "+pdfPath, err)
	}
	defer f.Close()

	pageElements := make(map[int][]PDFElement)
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		elements, err := e.extractPage(r, pageNum)
		if err != nil {
			logger.Warn("page extraction failed, skipping page",
				logger.String("path", filepath.Base(pdfPath)),
				logger.Int("page", pageNum),
				logger.Err(err))
			continue
		}
		pageElements[pageNum] = elements
	}

	return pageElements, nil
}

// extractPage extracts the classified text elements of a single page.
// The underlying content-stream parser can panic on malformed pages, so
// the recover keeps one bad page from taking down the document.
func (e *Extractor) extractPage(r *pdf.Reader, pageNum int) (elements []PDFElement, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			elements = nil
			err = NewPDFErrorWithPage(ErrExtractFailed, "panic while parsing page content", pageNum, nil)
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}
	if page.V.Key("Contents").Kind() == pdf.Null {
		return nil, nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, NewPDFErrorWithPage(ErrExtractFailed, "text extraction failed", pageNum, err)
	}

	index := 0
	for _, row := range rows {
		if len(row.Content) == 0 {
			continue
		}

		var sb strings.Builder
		var minX, maxX, minY, maxY float64
		first := true

		for _, text := range row.Content {
			if text.S == "" {
				continue
			}
			sb.WriteString(text.S)

			if first {
				minX, maxX = text.X, text.X
				minY, maxY = text.Y, text.Y
				first = false
				continue
			}
			if text.X < minX {
				minX = text.X
			}
			if text.X > maxX {
				maxX = text.X
			}
			if text.Y < minY {
				minY = text.Y
			}
			if text.Y > maxY {
				maxY = text.Y
			}
		}

		content := strings.TrimSpace(sb.String())
		if content == "" {
			continue
		}
		if hasExcessiveNonPrintable(content) {
			continue
		}

		elements = append(elements, PDFElement{
			Content:      content,
			Type:         Classify(content),
			PageNum:      pageNum,
			ElementIndex: index,
			BBox:         &BBox{X0: minX, Y0: minY, X1: maxX, Y1: maxY},
		})
		index++
	}

	return elements, nil
}

// ExtractFlat is the degraded extraction mode: whole-document plain text,
// split on blank lines, all elements assigned to page 1 with no position
// information. Used only when page-aware extraction fails wholesale.
func (e *Extractor) ExtractFlat(pdfPath string) ([]PDFElement, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		if os.IsNotExist(err) {
			return nil, NewPDFError(ErrPDFNotFound, "file does not exist: "+pdfPath, err)
		}
		return nil, NewPDFError(ErrPDFInvalid, "cannot access file: "+pdfPath, err)
	}

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, NewPDFError(ErrPDFInvalid, "cannot open PDF file: "+pdfPath, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, NewPDFError(ErrExtractFailed, "plain text extraction failed: "+pdfPath, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, NewPDFError(ErrExtractFailed, "plain text extraction failed: "+pdfPath, err)
	}

	return flatElements(buf.String()), nil
}

// flatElements splits raw document text into paragraph elements on page 1.
func flatElements(raw string) []PDFElement {
	var elements []PDFElement
	index := 0
	for _, para := range splitParagraphs(raw) {
		elements = append(elements, PDFElement{
			Content:      para,
			Type:         Classify(para),
			PageNum:      1,
			ElementIndex: index,
		})
		index++
	}
	return elements
}

// splitParagraphs splits text on blank lines, trimming and dropping empties.
func splitParagraphs(raw string) []string {
	var paras []string
	for _, p := range strings.Split(raw, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// hasExcessiveNonPrintable reports whether text is mostly control characters,
// which indicates operator garbage from the content stream rather than prose.
func hasExcessiveNonPrintable(text string) bool {
	if len(text) == 0 {
		return false
	}

	nonPrintableCount := 0
	runeCount := 0
	for _, r := range text {
		runeCount++
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			nonPrintableCount++
		}
		if r >= 0x7F && r <= 0x9F {
			nonPrintableCount++
		}
	}

	// Ratio over runes, not bytes; multibyte text must not dilute it.
	ratio := float64(nonPrintableCount) / float64(runeCount)
	return ratio > 0.1
}
