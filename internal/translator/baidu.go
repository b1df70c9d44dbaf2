package translator

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pdf-translator/internal/logger"
)

const (
	// BaiduAPIURL is the Baidu Fanyi general translation endpoint
	BaiduAPIURL = "https://fanyi-api.baidu.com/api/trans/vip/translate"
	// BaiduTimeout is the HTTP client timeout for Baidu API calls
	BaiduTimeout = 30 * time.Second
)

// BaiduTranslator is the Baidu Fanyi HTTP backend.
// Requests are signed with md5(appid + query + salt + secretKey).
type BaiduTranslator struct {
	appID     string
	secretKey string
	apiURL    string
	client    *http.Client
}

// NewBaiduTranslator creates an unconfigured Baidu backend
func NewBaiduTranslator() *BaiduTranslator {
	return &BaiduTranslator{
		apiURL: BaiduAPIURL,
		client: &http.Client{Timeout: BaiduTimeout},
	}
}

// Name returns the backend's display name
func (b *BaiduTranslator) Name() string {
	// Stable registry key; config and CLI select backends by this token.
	return "baidu"
}

// Configure applies the appId/secretKey credentials. Missing values leave
// the backend inert.
func (b *BaiduTranslator) Configure(options map[string]string) {
	b.appID = options["appId"]
	b.secretKey = options["secretKey"]
}

// baiduResponse is the wire shape of the Fanyi API response
type baiduResponse struct {
	ErrorCode   string `json:"error_code"`
	ErrorMsg    string `json:"error_msg"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}

// Translate translates one text span via the Fanyi HTTP API.
func (b *BaiduTranslator) Translate(ctx context.Context, text, srcLang, targetLang string) (*TranslationResult, error) {
	if b.appID == "" || b.secretKey == "" {
		return nil, ErrNotConfigured
	}

	salt := strconv.Itoa(rand.Intn(32768) + 32768)
	sum := md5.Sum([]byte(b.appID + text + salt + b.secretKey))
	sign := hex.EncodeToString(sum[:])

	params := url.Values{}
	params.Set("q", text)
	params.Set("from", srcLang)
	params.Set("to", targetLang)
	params.Set("appid", b.appID)
	params.Set("salt", salt)
	params.Set("sign", sign)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Baidu request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Baidu API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Baidu API returned status %d", resp.StatusCode)
	}

	var result baiduResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Baidu response: %w", err)
	}

	if result.ErrorCode != "" && result.ErrorCode != "52000" {
		logger.Warn("Baidu API error",
			logger.String("code", result.ErrorCode),
			logger.String("msg", result.ErrorMsg))
		return nil, fmt.Errorf("Baidu API error %s: %s", result.ErrorCode, result.ErrorMsg)
	}
	if len(result.TransResult) == 0 {
		return nil, fmt.Errorf("Baidu API returned no translation")
	}

	lines := make([]string, 0, len(result.TransResult))
	for _, item := range result.TransResult {
		lines = append(lines, item.Dst)
	}

	return &TranslationResult{
		SrcText:        text,
		TranslatedText: strings.Join(lines, "\n"),
		SrcLang:        srcLang,
		TargetLang:     targetLang,
	}, nil
}
