package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/translator"
	"pdf-translator/internal/types"
)

// CacheFileVersion 翻译缓存文件格式版本
const CacheFileVersion = "1.0"

// cacheFile is the on-disk envelope for one (fileHash, srcLang, targetLang)
// translation run. Pages maps page number -> results in element order.
type cacheFile struct {
	Version    string                                 `json:"version"`
	FileHash   string                                 `json:"file_hash"`
	SrcLang    string                                 `json:"src_lang"`
	TargetLang string                                 `json:"target_lang"`
	UpdatedAt  time.Time                              `json:"updated_at"`
	Pages      map[int][]translator.TranslationResult `json:"pages"`
}

// TranslationCache 负责按 (文件哈希, 语言对) 缓存整页翻译结果
type TranslationCache struct {
	cacheDir string
	mu       sync.Mutex
}

// NewTranslationCache 创建新的翻译缓存实例
func NewTranslationCache(cacheDir string) *TranslationCache {
	return &TranslationCache{cacheDir: cacheDir}
}

func (c *TranslationCache) filePath(fileHash, srcLang, targetLang string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s_%s_%s.json", fileHash, srcLang, targetLang))
}

// Load 加载缓存；文件缺失或损坏时返回空缓存，从不报错
func (c *TranslationCache) Load(fileHash, srcLang, targetLang string) map[int][]translator.TranslationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(fileHash, srcLang, targetLang)
}

func (c *TranslationCache) loadLocked(fileHash, srcLang, targetLang string) map[int][]translator.TranslationResult {
	path := c.filePath(fileHash, srcLang, targetLang)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read translation cache, starting empty",
				logger.String("path", path),
				logger.Err(err))
		}
		return map[int][]translator.TranslationResult{}
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		logger.Warn("Corrupt translation cache, starting empty",
			logger.String("path", path),
			logger.Err(err))
		return map[int][]translator.TranslationResult{}
	}
	if cf.Pages == nil {
		return map[int][]translator.TranslationResult{}
	}
	return cf.Pages
}

// Save 将增量页合并进磁盘上的缓存文件。先读后写，已有页不会丢失；
// 增量中的页覆盖同号旧页。
func (c *TranslationCache) Save(fileHash, srcLang, targetLang string, delta map[int][]translator.TranslationResult) error {
	if len(delta) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return types.NewAppError(types.ErrCache, "failed to create cache directory", err)
	}

	pages := c.loadLocked(fileHash, srcLang, targetLang)
	for pageNum, results := range delta {
		pages[pageNum] = results
	}

	cf := cacheFile{
		Version:    CacheFileVersion,
		FileHash:   fileHash,
		SrcLang:    srcLang,
		TargetLang: targetLang,
		UpdatedAt:  time.Now(),
		Pages:      pages,
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrCache, "failed to serialize translation cache", err)
	}

	path := c.filePath(fileHash, srcLang, targetLang)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return types.NewAppError(types.ErrCache, "failed to write translation cache", err)
	}

	logger.Debug("Translation cache saved",
		logger.String("path", path),
		logger.Int("pages", len(pages)))
	return nil
}
