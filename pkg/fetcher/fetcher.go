package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/crowd_voice/pkg/logger"
	"github.com/iWorld-y/crowd_voice/pkg/metrics"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 5 << 20
	defaultUserAgent    = "Mozilla/5.0 (compatible; CrowdVoice/1.0)"
	maxRedirects        = 10
)

// Config 抓取配置
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// Page 抓取结果
type Page struct {
	URL        string // 请求的 URL
	FinalURL   string // 跟随重定向后的 URL
	StatusCode int
	Content    string // 原始响应正文
	Text       string // 提取出的可读正文，提取失败时等于 Content
	Title      string // <title> 内容
}

// Fetcher 内容抓取器，无状态，可并发使用
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
}

// New 创建抓取器
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		maxBodyBytes: cfg.MaxBodyBytes,
		userAgent:    cfg.UserAgent,
	}
}

// Fetch 抓取 URL，只尝试一次；失败时返回 *FetchError
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	page, err := f.fetch(ctx, rawURL)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			metrics.FetchRequests.WithLabelValues(string(fe.Kind)).Inc()
		}
		logger.Log.Warnf("抓取失败 [%s]: %v", rawURL, err)
		return nil, err
	}
	metrics.FetchRequests.WithLabelValues("ok").Inc()
	logger.Log.Infof("抓取完成 [%s] -> [%s], %d 字节", rawURL, page.FinalURL, len(page.Content))
	return page, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindOther, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Kind:       KindHTTPStatus,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     reasonPhrase(resp),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, classify(rawURL, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &FetchError{Kind: KindEmpty, URL: rawURL}
	}

	finalURL := resp.Request.URL
	content := string(body)
	return &Page{
		URL:        rawURL,
		FinalURL:   finalURL.String(),
		StatusCode: resp.StatusCode,
		Content:    content,
		Text:       readableText(content, finalURL),
		Title:      ExtractTitle(content),
	}, nil
}

// ExtractTitle 返回第一个 <title> 元素的文本
func ExtractTitle(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

// readableText 用 readability 提取正文，失败时退回原文
func readableText(content string, pageURL *url.URL) string {
	article, err := readability.FromReader(strings.NewReader(content), pageURL)
	if err != nil {
		logger.Log.Debugf("正文提取失败 [%s]: %v", pageURL, err)
		return content
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return content
	}
	return text
}

// NormalizeURL 规范化用户输入的 URL，缺少协议时补 https://
func NormalizeURL(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("url is empty")
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", input)
	}
	return u.String(), nil
}

// reasonPhrase 优先使用服务端返回的状态描述
func reasonPhrase(resp *http.Response) string {
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
