package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"pdf-translator/internal/logger"
)

// DefaultOpenAIModel is the default chat model used for translation
const DefaultOpenAIModel = "gpt-4o"

// OpenAITranslator translates text through an OpenAI-compatible chat model
// using the eino openai component.
type OpenAITranslator struct {
	mu      sync.Mutex
	apiKey  string
	baseURL string
	model   string
	chat    *openai.ChatModel
}

// NewOpenAITranslator creates an unconfigured OpenAI backend
func NewOpenAITranslator() *OpenAITranslator {
	return &OpenAITranslator{
		model: DefaultOpenAIModel,
	}
}

// Name returns the backend's display name
func (o *OpenAITranslator) Name() string {
	// Stable registry key; config and CLI select backends by this token.
	return "openai"
}

// Configure applies apiKey/baseURL/model options. A missing apiKey leaves
// the backend inert; the chat model is rebuilt on the next call.
func (o *OpenAITranslator) Configure(options map[string]string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.apiKey = options["apiKey"]
	o.baseURL = options["baseURL"]
	if m := options["model"]; m != "" {
		o.model = m
	}
	o.chat = nil
}

// chatModel lazily builds the eino chat model for the current credentials
func (o *OpenAITranslator) chatModel(ctx context.Context) (*openai.ChatModel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if o.chat != nil {
		return o.chat, nil
	}

	cfg := &openai.ChatModelConfig{
		Model:  o.model,
		APIKey: o.apiKey,
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}

	chat, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	o.chat = chat
	return chat, nil
}

// Translate asks the chat model for a translation of one text span.
func (o *OpenAITranslator) Translate(ctx context.Context, text, srcLang, targetLang string) (*TranslationResult, error) {
	chat, err := o.chatModel(ctx)
	if err != nil {
		return nil, err
	}

	system := fmt.Sprintf(
		"You are a professional translator. Translate the user's text from %s to %s. "+
			"Preserve technical terms and numbers. Output only the translation, nothing else.",
		langName(srcLang), langName(targetLang))

	response, err := chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(text),
	})
	if err != nil {
		logger.Warn("OpenAI translation failed", logger.Err(err))
		return nil, fmt.Errorf("chat model request failed: %w", err)
	}

	translated := strings.TrimSpace(response.Content)
	if translated == "" {
		return nil, fmt.Errorf("chat model returned empty translation")
	}

	return &TranslationResult{
		SrcText:        text,
		TranslatedText: translated,
		SrcLang:        srcLang,
		TargetLang:     targetLang,
	}, nil
}

// langName resolves a BCP 47 code to its English display name for the
// prompt; unknown codes are passed through as-is.
func langName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}
