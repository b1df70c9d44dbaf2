package translator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubTranslator is a minimal in-memory backend for registry tests
type stubTranslator struct {
	name string
}

func (s *stubTranslator) Translate(ctx context.Context, text, srcLang, targetLang string) (*TranslationResult, error) {
	return &TranslationResult{SrcText: text, TranslatedText: "[" + s.name + "]" + text, SrcLang: srcLang, TargetLang: targetLang}, nil
}
func (s *stubTranslator) Name() string                      { return s.name }
func (s *stubTranslator) Configure(options map[string]string) {}

// TestRegistry_FirstRegisteredBecomesCurrent tests default current selection
func TestRegistry_FirstRegisteredBecomesCurrent(t *testing.T) {
	r := NewRegistry()
	if r.Current() != nil {
		t.Fatal("Expected nil current on empty registry")
	}

	a := &stubTranslator{name: "alpha"}
	b := &stubTranslator{name: "beta"}
	r.Register(a)
	r.Register(b)

	if r.Current() != a {
		t.Errorf("Expected first registered backend to be current, got %v", r.Current().Name())
	}
}

// TestRegistry_SetCurrent tests explicit selection and unknown names
func TestRegistry_SetCurrent(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTranslator{name: "alpha"})
	r.Register(&stubTranslator{name: "beta"})

	if !r.SetCurrent("beta") {
		t.Fatal("Expected SetCurrent to succeed for registered backend")
	}
	if r.Current().Name() != "beta" {
		t.Errorf("Expected beta to be current, got %s", r.Current().Name())
	}

	if r.SetCurrent("gamma") {
		t.Error("Expected SetCurrent to fail for unknown backend")
	}
	if r.Current().Name() != "beta" {
		t.Error("Failed SetCurrent must not change the current backend")
	}
}

// TestRegistry_Names tests the sorted name listing
func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTranslator{name: "zeta"})
	r.Register(&stubTranslator{name: "alpha"})

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("Expected sorted names [alpha zeta], got %v", names)
	}
}

// TestRegistry_SelectsBackendsByToken tests that the shipped backends
// register under the lowercase tokens the config and CLI use
func TestRegistry_SelectsBackendsByToken(t *testing.T) {
	r := NewRegistry()
	r.Register(NewBaiduTranslator())
	r.Register(NewOpenAITranslator())

	if !r.SetCurrent("baidu") {
		t.Error("Expected baidu token to select the Baidu backend")
	}
	if !r.SetCurrent("openai") {
		t.Error("Expected openai token to select the OpenAI backend")
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "baidu" || names[1] != "openai" {
		t.Errorf("Expected registry names [baidu openai], got %v", names)
	}
}

// TestBaidu_Unconfigured tests that missing credentials make the backend inert
func TestBaidu_Unconfigured(t *testing.T) {
	b := NewBaiduTranslator()
	_, err := b.Translate(context.Background(), "hello", "en", "zh")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}

	// Configure with partial credentials stays inert
	b.Configure(map[string]string{"appId": "only-app-id"})
	_, err = b.Translate(context.Background(), "hello", "en", "zh")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured with partial credentials, got %v", err)
	}
}

// TestBaidu_TranslateSuccess tests a successful API round trip
func TestBaidu_TranslateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Hello" || q.Get("from") != "en" || q.Get("to") != "zh" {
			t.Errorf("Unexpected query params: %v", q)
		}
		if q.Get("appid") == "" || q.Get("salt") == "" || q.Get("sign") == "" {
			t.Error("Expected signed request")
		}
		w.Write([]byte(`{"from":"en","to":"zh","trans_result":[{"src":"Hello","dst":"你好"}]}`))
	}))
	defer server.Close()

	b := NewBaiduTranslator()
	b.Configure(map[string]string{"appId": "app", "secretKey": "secret"})
	b.apiURL = server.URL

	result, err := b.Translate(context.Background(), "Hello", "en", "zh")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result.TranslatedText != "你好" {
		t.Errorf("Expected 你好, got %q", result.TranslatedText)
	}
	if result.SrcText != "Hello" || result.SrcLang != "en" || result.TargetLang != "zh" {
		t.Errorf("Result metadata mismatch: %+v", result)
	}
}

// TestBaidu_MultiLineResult tests that multiple segments are joined by newlines
func TestBaidu_MultiLineResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trans_result":[{"src":"a","dst":"甲"},{"src":"b","dst":"乙"}]}`))
	}))
	defer server.Close()

	b := NewBaiduTranslator()
	b.Configure(map[string]string{"appId": "app", "secretKey": "secret"})
	b.apiURL = server.URL

	result, err := b.Translate(context.Background(), "a\nb", "en", "zh")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result.TranslatedText != "甲\n乙" {
		t.Errorf("Expected joined segments, got %q", result.TranslatedText)
	}
}

// TestBaidu_APIError tests that an API error code surfaces as a failure
func TestBaidu_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":"54001","error_msg":"Invalid Sign"}`))
	}))
	defer server.Close()

	b := NewBaiduTranslator()
	b.Configure(map[string]string{"appId": "app", "secretKey": "bad"})
	b.apiURL = server.URL

	_, err := b.Translate(context.Background(), "Hello", "en", "zh")
	if err == nil {
		t.Fatal("Expected error for API failure, got nil")
	}
}

// TestBaidu_HTTPError tests that a non-200 status surfaces as a failure
func TestBaidu_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	b := NewBaiduTranslator()
	b.Configure(map[string]string{"appId": "app", "secretKey": "secret"})
	b.apiURL = server.URL

	_, err := b.Translate(context.Background(), "Hello", "en", "zh")
	if err == nil {
		t.Fatal("Expected error for HTTP 502, got nil")
	}
}

// TestOpenAI_Unconfigured tests that a missing API key makes the backend inert
func TestOpenAI_Unconfigured(t *testing.T) {
	o := NewOpenAITranslator()
	_, err := o.Translate(context.Background(), "hello", "en", "zh")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

// TestLangName tests display-name resolution for prompt building
func TestLangName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "English"},
		{"zh", "Chinese"},
		{"not-a-lang!", "not-a-lang!"},
	}
	for _, tt := range tests {
		if got := langName(tt.code); got != tt.want {
			t.Errorf("langName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
