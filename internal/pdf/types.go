// Package pdf provides PDF structural element extraction: positioned text
// blocks classified by semantic type, plus embedded raster images.
package pdf

import "fmt"

// ElementType 元素类型
type ElementType string

const (
	ElementText    ElementType = "text"
	ElementFigure  ElementType = "figure"
	ElementTable   ElementType = "table"
	ElementFormula ElementType = "formula"
)

// BBox is a bounding box in page coordinate space.
// PDF coordinates have their origin at the bottom-left of the page.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// String serializes the bounding box as a comma-joined 4-tuple
func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.X0, b.Y0, b.X1, b.Y1)
}

// PDFElement 从 PDF 页面提取的一个逻辑单元
type PDFElement struct {
	Content      string      `json:"content"`
	Type         ElementType `json:"element_type"`
	PageNum      int         `json:"page_num"`      // 1-based page index
	ElementIndex int         `json:"element_index"` // 0-based position within the page
	BinaryData   []byte      `json:"binary_data,omitempty"`
	BBox         *BBox       `json:"bbox,omitempty"` // nil when extraction was unpositioned
}

// PDFInfo PDF 文件信息
type PDFInfo struct {
	FilePath  string `json:"file_path"`
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count"`
	FileSize  int64  `json:"file_size"`
}

// PDFErrorCode 错误代码枚举
type PDFErrorCode string

const (
	ErrPDFNotFound   PDFErrorCode = "PDF_NOT_FOUND"
	ErrPDFInvalid    PDFErrorCode = "PDF_INVALID"
	ErrExtractFailed PDFErrorCode = "EXTRACT_FAILED"
)

// PDFError PDF 处理错误
type PDFError struct {
	Code    PDFErrorCode `json:"code"`
	Message string       `json:"message"`
	Page    int          `json:"page,omitempty"`
	Cause   error        `json:"-"`
}

// Error implements the error interface for PDFError
func (e *PDFError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s (page %d)", e.Message, e.Page)
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *PDFError) Unwrap() error {
	return e.Cause
}

// NewPDFError creates a new PDFError with the given code, message, and optional cause
func NewPDFError(code PDFErrorCode, message string, cause error) *PDFError {
	return &PDFError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewPDFErrorWithPage creates a new PDFError carrying page information
func NewPDFErrorWithPage(code PDFErrorCode, message string, page int, cause error) *PDFError {
	return &PDFError{
		Code:    code,
		Message: message,
		Page:    page,
		Cause:   cause,
	}
}
