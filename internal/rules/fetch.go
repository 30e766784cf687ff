package rules

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/winspan/boomrules/pkg/logger"
	"github.com/winspan/boomrules/pkg/utils"
)

// Fetcher 获取上游规则原文
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// StatusError 上游返回非 2xx 状态码
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// HTTPFetcher 通过一次 HTTP GET 下载规则文件
type HTTPFetcher struct {
	url        string
	userAgent  string
	httpClient *http.Client
	log        *logger.Logger
}

// NewHTTPFetcher 创建下载器，timeout 覆盖整个请求（含读取响应体）
func NewHTTPFetcher(url string, timeout time.Duration, userAgent string, log *logger.Logger) *HTTPFetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPFetcher{
		url:        url,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("fetch"),
	}
}

// Fetch 下载规则文件并按 UTF-8 解码，非法字节替换为 U+FFFD
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: f.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body %s: %w", f.url, err)
	}

	text, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), body)
	if err != nil {
		return "", fmt.Errorf("decode body %s: %w", f.url, err)
	}

	f.log.Info().
		Str("url", f.url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Str("sha256", utils.SHA256Hash(body)).
		Msg("upstream downloaded")

	return string(text), nil
}
