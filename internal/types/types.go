// Package types defines core data types and enums shared across the PDF translator.
package types

// Config 应用配置
type Config struct {
	// Element store
	DatabasePath string `json:"database_path"` // sqlite 数据库路径，默认 data/pdf_elements.db
	// Translation cache
	CacheDir string `json:"cache_dir"` // 翻译缓存目录，默认 translation_cache
	// Default language pair
	DefaultSrcLang    string `json:"default_src_lang"`    // 默认源语言，默认 en
	DefaultTargetLang string `json:"default_target_lang"` // 默认目标语言，默认 zh
	// Baidu Fanyi credentials
	BaiduAppID     string `json:"baidu_app_id"`
	BaiduSecretKey string `json:"baidu_secret_key"`
	// OpenAI-compatible backend
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"` // OpenAI 兼容 API 的 Base URL
	OpenAIModel   string `json:"openai_model"`
	// Default translator backend name
	DefaultTranslator string `json:"default_translator"`
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrExtract      ErrorCode = "EXTRACT_ERROR"
	ErrStore        ErrorCode = "STORE_ERROR"
	ErrCache        ErrorCode = "CACHE_ERROR"
	ErrTranslation  ErrorCode = "TRANSLATION_ERROR"
	ErrNoTranslator ErrorCode = "NO_TRANSLATOR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
