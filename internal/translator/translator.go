// Package translator defines the pluggable translation capability and its
// concrete backends. Backends are registered by name in a Registry and
// selected via an explicit current pointer.
package translator

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotConfigured is returned by a backend whose credentials are missing
// or invalid. An unconfigured backend is inert, never panicking.
var ErrNotConfigured = errors.New("translator is not configured")

// TranslationResult 一次翻译的结果
type TranslationResult struct {
	SrcText        string `json:"src_text"`
	TranslatedText string `json:"translated_text"`
	SrcLang        string `json:"src_lang"`
	TargetLang     string `json:"target_lang"`
	PageNum        int    `json:"page_num"`
}

// Translator is the translation capability consumed by the engine.
type Translator interface {
	// Translate translates text from srcLang to targetLang. A nil result
	// with a non-nil error signals failure for this span; the caller
	// decides whether that is fatal.
	Translate(ctx context.Context, text, srcLang, targetLang string) (*TranslationResult, error)
	// Name returns the backend's display name
	Name() string
	// Configure applies backend-specific options (credentials etc.).
	// Missing options make the backend inert rather than failing here.
	Configure(options map[string]string)
}

// Registry holds named translator backends and the current selection.
type Registry struct {
	mu          sync.RWMutex
	translators map[string]Translator
	current     Translator
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		translators: make(map[string]Translator),
	}
}

// Register adds a backend under its name. The first registered backend
// becomes the current one.
func (r *Registry) Register(t Translator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.translators[t.Name()] = t
	if r.current == nil {
		r.current = t
	}
}

// SetCurrent selects the named backend; returns false if unknown.
func (r *Registry) SetCurrent(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.translators[name]
	if !ok {
		return false
	}
	r.current = t
	return true
}

// Current returns the selected backend, or nil when none is registered.
func (r *Registry) Current() Translator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.translators))
	for name := range r.translators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
