package pdf

import (
	"fmt"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"pdf-translator/internal/logger"
)

// ExtractImages walks the embedded-object tables of every page and returns
// each decoded raster image as a figure element with BinaryData set and a
// synthetic label as content. Typing is structural here, not pattern-based.
// Ordering is (page number, object number) so identical bytes always yield
// an identical sequence.
func (e *Extractor) ExtractImages(pdfPath string) ([]PDFElement, error) {
	ctx, err := api.ReadContextFile(pdfPath)
	if err != nil {
		return nil, NewPDFError(ErrPDFInvalid, "cannot read PDF for image extraction: "+pdfPath, err)
	}

	var elements []PDFElement
	for pageNum := 1; pageNum <= ctx.PageCount; pageNum++ {
		images, err := pdfcpu.ExtractPageImages(ctx, pageNum, false)
		if err != nil {
			logger.Warn("image extraction failed for page",
				logger.Int("page", pageNum),
				logger.Err(err))
			continue
		}
		if len(images) == 0 {
			continue
		}

		// Map iteration order is random; sort by object number
		objNrs := make([]int, 0, len(images))
		for objNr := range images {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := images[objNr]
			data, err := io.ReadAll(img)
			if err != nil {
				logger.Warn("failed to decode embedded image",
					logger.Int("page", pageNum),
					logger.Int("obj", objNr),
					logger.Err(err))
				continue
			}
			if len(data) == 0 {
				continue
			}

			elements = append(elements, PDFElement{
				Content:    fmt.Sprintf("figure_p%d_%s.%s", pageNum, img.Name, img.FileType),
				Type:       ElementFigure,
				PageNum:    pageNum,
				BinaryData: data,
			})
		}
	}

	return elements, nil
}
