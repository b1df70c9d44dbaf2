package engine

import (
	"os"
	"path/filepath"
	"testing"

	"pdf-translator/internal/translator"
)

func result(page int, src, dst string) translator.TranslationResult {
	return translator.TranslationResult{
		SrcText:        src,
		TranslatedText: dst,
		SrcLang:        "en",
		TargetLang:     "zh",
		PageNum:        page,
	}
}

// TestCacheLoad_Missing tests that an absent cache file yields an empty cache
func TestCacheLoad_Missing(t *testing.T) {
	c := NewTranslationCache(t.TempDir())
	pages := c.Load("deadbeef", "en", "zh")
	if len(pages) != 0 {
		t.Errorf("Expected empty cache, got %d pages", len(pages))
	}
}

// TestCacheSaveAndLoad_RoundTrip tests the basic save/load cycle
func TestCacheSaveAndLoad_RoundTrip(t *testing.T) {
	c := NewTranslationCache(t.TempDir())

	delta := map[int][]translator.TranslationResult{
		1: {result(1, "Hello", "你好"), result(1, "World", "世界")},
		3: {result(3, "End", "结束")},
	}
	if err := c.Save("deadbeef", "en", "zh", delta); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	pages := c.Load("deadbeef", "en", "zh")
	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	if len(pages[1]) != 2 || pages[1][0].TranslatedText != "你好" {
		t.Errorf("Page 1 round trip failed: %+v", pages[1])
	}
	if len(pages[3]) != 1 || pages[3][0].SrcText != "End" {
		t.Errorf("Page 3 round trip failed: %+v", pages[3])
	}
}

// TestCacheSave_MergesWithDisk tests that saving a delta keeps prior pages
func TestCacheSave_MergesWithDisk(t *testing.T) {
	c := NewTranslationCache(t.TempDir())

	if err := c.Save("deadbeef", "en", "zh", map[int][]translator.TranslationResult{
		1: {result(1, "Hello", "你好")},
	}); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := c.Save("deadbeef", "en", "zh", map[int][]translator.TranslationResult{
		2: {result(2, "World", "世界")},
	}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	pages := c.Load("deadbeef", "en", "zh")
	if len(pages) != 2 {
		t.Fatalf("Expected merged cache with 2 pages, got %d", len(pages))
	}
}

// TestCacheSave_EmptyDelta tests that an empty delta writes nothing
func TestCacheSave_EmptyDelta(t *testing.T) {
	dir := t.TempDir()
	c := NewTranslationCache(dir)

	if err := c.Save("deadbeef", "en", "zh", nil); err != nil {
		t.Fatalf("Save of empty delta failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no cache files, got %d", len(entries))
	}
}

// TestCacheLoad_Corrupt tests that a corrupt file degrades to an empty cache
func TestCacheLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewTranslationCache(dir)

	path := filepath.Join(dir, "deadbeef_en_zh.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	pages := c.Load("deadbeef", "en", "zh")
	if len(pages) != 0 {
		t.Errorf("Expected empty cache for corrupt file, got %d pages", len(pages))
	}
}

// TestCacheKeys_Independent tests that language pairs use separate files
func TestCacheKeys_Independent(t *testing.T) {
	c := NewTranslationCache(t.TempDir())

	if err := c.Save("deadbeef", "en", "zh", map[int][]translator.TranslationResult{
		1: {result(1, "Hello", "你好")},
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if pages := c.Load("deadbeef", "en", "fr"); len(pages) != 0 {
		t.Errorf("Expected empty cache for unrelated language pair, got %d pages", len(pages))
	}
	if pages := c.Load("cafebabe", "en", "zh"); len(pages) != 0 {
		t.Errorf("Expected empty cache for unrelated file hash, got %d pages", len(pages))
	}
}
