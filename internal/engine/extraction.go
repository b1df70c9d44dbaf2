package engine

import (
	"sort"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/pdf"
	"pdf-translator/internal/store"
	"pdf-translator/internal/types"
)

// elementExtractor covers the extraction surface ParseAndStore needs.
// *pdf.Extractor satisfies it; tests substitute a spy.
type elementExtractor interface {
	Info(pdfPath string) (*pdf.PDFInfo, error)
	ExtractByPage(pdfPath string) (map[int][]pdf.PDFElement, error)
	ExtractFlat(pdfPath string) ([]pdf.PDFElement, error)
	ExtractImages(pdfPath string) ([]pdf.PDFElement, error)
}

// ParseAndStore 解析 PDF 元素并持久化。文件字节未变时直接返回库中结果，
// 不做任何解析；变化或首次处理时重新提取并原子替换。
func (e *Engine) ParseAndStore(pdfPath string) ([]pdf.PDFElement, error) {
	fileHash, err := store.FileHash(pdfPath)
	if err != nil {
		return nil, types.NewAppError(types.ErrFileNotFound, "cannot hash PDF file: "+pdfPath, err)
	}

	meta, err := e.store.Metadata(pdfPath)
	if err != nil {
		return nil, err
	}
	if meta != nil && meta.FileHash == fileHash {
		logger.Debug("PDF unchanged, serving stored elements",
			logger.String("path", pdfPath),
			logger.String("hash", fileHash))
		return e.store.Fetch(pdfPath)
	}

	elements, totalPages, err := e.extract(pdfPath)
	if err != nil {
		return nil, err
	}

	if _, err := e.store.Store(pdfPath, elements, totalPages); err != nil {
		return nil, err
	}

	logger.Info("PDF parsed and stored",
		logger.String("path", pdfPath),
		logger.Int("elements", len(elements)),
		logger.Int("pages", totalPages))
	return elements, nil
}

// extract runs text and image extraction independently, merges the results
// and re-assigns dense per-page element indexes.
func (e *Engine) extract(pdfPath string) ([]pdf.PDFElement, int, error) {
	var elements []pdf.PDFElement

	pages, err := e.extractor.ExtractByPage(pdfPath)
	if err != nil {
		logger.Warn("Page extraction failed, falling back to flat extraction",
			logger.String("path", pdfPath),
			logger.Err(err))
		flat, ferr := e.extractor.ExtractFlat(pdfPath)
		if ferr != nil {
			return nil, 0, ferr
		}
		elements = flat
	} else {
		for _, pageElements := range pages {
			elements = append(elements, pageElements...)
		}
	}

	images, err := e.extractor.ExtractImages(pdfPath)
	if err != nil {
		// Raster images are best effort; text alone is still a valid result.
		logger.Warn("Image extraction failed, continuing without images",
			logger.String("path", pdfPath),
			logger.Err(err))
	} else {
		elements = append(elements, images...)
	}

	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].PageNum != elements[j].PageNum {
			return elements[i].PageNum < elements[j].PageNum
		}
		return elements[i].ElementIndex < elements[j].ElementIndex
	})

	// Re-assign dense indexes; text and image extraction number independently.
	lastPage := 0
	nextIndex := 0
	maxPage := 0
	for i := range elements {
		if elements[i].PageNum != lastPage {
			lastPage = elements[i].PageNum
			nextIndex = 0
		}
		elements[i].ElementIndex = nextIndex
		nextIndex++
		if elements[i].PageNum > maxPage {
			maxPage = elements[i].PageNum
		}
	}

	totalPages := maxPage
	if info, err := e.extractor.Info(pdfPath); err == nil {
		totalPages = info.PageCount
	}
	if totalPages < maxPage {
		totalPages = maxPage
	}

	return elements, totalPages, nil
}
