package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/pdf"
	"pdf-translator/internal/store"
	"pdf-translator/internal/translator"
	"pdf-translator/internal/types"
)

// ProgressFunc 翻译进度回调，每处理完一页调用一次
type ProgressFunc func(pagesProcessed, totalPages int)

// Engine 翻译引擎：协调元素提取、持久化、翻译后端与页级缓存
type Engine struct {
	store     *store.Store
	extractor elementExtractor
	cache     *TranslationCache
	registry  *translator.Registry
}

// NewEngine 创建新的翻译引擎实例
func NewEngine(st *store.Store, cacheDir string) *Engine {
	return &Engine{
		store:     st,
		extractor: pdf.NewExtractor(),
		cache:     NewTranslationCache(cacheDir),
		registry:  translator.NewRegistry(),
	}
}

// RegisterTranslator 注册翻译后端；首个注册的后端成为当前后端
func (e *Engine) RegisterTranslator(t translator.Translator) {
	e.registry.Register(t)
}

// SetCurrentTranslator 按名称切换当前翻译后端
func (e *Engine) SetCurrentTranslator(name string) error {
	if !e.registry.SetCurrent(name) {
		return types.NewAppError(types.ErrNoTranslator, "unknown translator: "+name, nil)
	}
	return nil
}

// GetAvailableTranslators 返回已注册后端名称（按字典序）
func (e *Engine) GetAvailableTranslators() []string {
	return e.registry.Names()
}

// TranslatePDF 分页翻译 PDF 并整合结果。已缓存的页原样重放，不再调用
// 翻译后端；文本元素送当前后端翻译，图表公式元素原文保留并加标记。
func (e *Engine) TranslatePDF(ctx context.Context, pdfPath, srcLang, targetLang string, onProgress ProgressFunc) (string, error) {
	if err := validateLangPair(srcLang, targetLang); err != nil {
		return "", err
	}

	current := e.registry.Current()
	if current == nil {
		return "", types.NewAppError(types.ErrNoTranslator, "no translator registered", nil)
	}

	elements, err := e.ParseAndStore(pdfPath)
	if err != nil {
		return "", err
	}

	fileHash, err := store.FileHash(pdfPath)
	if err != nil {
		return "", types.NewAppError(types.ErrFileNotFound, "cannot hash PDF file: "+pdfPath, err)
	}
	cached := e.cache.Load(fileHash, srcLang, targetLang)

	byPage := make(map[int][]pdf.PDFElement)
	for _, el := range elements {
		byPage[el.PageNum] = append(byPage[el.PageNum], el)
	}
	pageNums := make([]int, 0, len(byPage))
	for pageNum := range byPage {
		pageNums = append(pageNums, pageNum)
	}
	sort.Ints(pageNums)

	// Progress runs against the document's page count, not just the pages
	// that produced elements; element-free trailing pages still count.
	totalPages := len(pageNums)
	if meta, merr := e.store.Metadata(pdfPath); merr == nil && meta != nil && meta.TotalPages > totalPages {
		totalPages = meta.TotalPages
	}

	pageTexts := make([]string, 0, len(pageNums))
	delta := make(map[int][]translator.TranslationResult)

	for i, pageNum := range pageNums {
		if err := ctx.Err(); err != nil {
			return "", types.NewAppError(types.ErrTranslation, "translation cancelled", err)
		}

		var parts []string
		if results, ok := cached[pageNum]; ok {
			for _, r := range results {
				parts = append(parts, r.TranslatedText)
			}
		} else {
			pageResults, pageParts, complete := e.translatePage(ctx, current, byPage[pageNum], pageNum, srcLang, targetLang)
			parts = pageParts
			// A page with a failed element stays out of the cache so the
			// dropped element is retried on the next run.
			if complete {
				delta[pageNum] = pageResults
			}
		}

		pageTexts = append(pageTexts, strings.Join(parts, "\n\n"))
		if onProgress != nil {
			onProgress(i+1, totalPages)
		}
	}

	if err := e.cache.Save(fileHash, srcLang, targetLang, delta); err != nil {
		logger.Warn("Failed to persist translation cache",
			logger.String("path", pdfPath),
			logger.Err(err))
	}

	var sb strings.Builder
	for i, text := range pageTexts {
		sb.WriteString(text)
		if i < len(pageTexts)-1 {
			sb.WriteString(fmt.Sprintf("\n\n=== 第 %d 页结束 ===\n\n", pageNums[i]))
		}
	}
	return sb.String(), nil
}

// translatePage translates one uncached page element by element.
func (e *Engine) translatePage(ctx context.Context, current translator.Translator, elements []pdf.PDFElement, pageNum int, srcLang, targetLang string) ([]translator.TranslationResult, []string, bool) {
	results := make([]translator.TranslationResult, 0, len(elements))
	parts := make([]string, 0, len(elements))
	complete := true

	for _, el := range elements {
		if el.Type != pdf.ElementText {
			part := preserveMarker(el)
			parts = append(parts, part)
			results = append(results, translator.TranslationResult{
				SrcText:        el.Content,
				TranslatedText: part,
				SrcLang:        srcLang,
				TargetLang:     targetLang,
				PageNum:        pageNum,
			})
			continue
		}

		result, err := current.Translate(ctx, el.Content, srcLang, targetLang)
		if err != nil {
			logger.Warn("Element translation failed, dropping element",
				logger.Int("page", pageNum),
				logger.Int("index", el.ElementIndex),
				logger.String("translator", current.Name()),
				logger.Err(err))
			complete = false
			continue
		}
		result.PageNum = pageNum
		parts = append(parts, result.TranslatedText)
		results = append(results, *result)
	}

	return results, parts, complete
}

// preserveMarker wraps a non-text element in the passthrough marker used
// by the output format.
func preserveMarker(el pdf.PDFElement) string {
	return fmt.Sprintf("【保留%s】\n%s", el.Type, el.Content)
}

// validateLangPair 校验语言代码；源语言允许 "auto"（由后端自行检测）
func validateLangPair(srcLang, targetLang string) error {
	if srcLang != "auto" {
		if _, err := language.Parse(srcLang); err != nil {
			return types.NewAppError(types.ErrInvalidInput, "invalid source language: "+srcLang, err)
		}
	}
	if targetLang == "auto" {
		return types.NewAppError(types.ErrInvalidInput, "target language cannot be auto", nil)
	}
	if _, err := language.Parse(targetLang); err != nil {
		return types.NewAppError(types.ErrInvalidInput, "invalid target language: "+targetLang, err)
	}
	return nil
}
