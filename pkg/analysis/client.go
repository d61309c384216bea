package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/crowd_voice/pkg/logger"
	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

var (
	// ErrUnavailable 调用失败（网络、限流耗尽、超时等）
	ErrUnavailable = errors.New("analysis unavailable")
	// ErrValidation 模型输出无法解析或不符合约束
	ErrValidation = errors.New("analysis response failed validation")
)

const (
	defaultRPM        = 60
	defaultQPS        = 5
	defaultRetryDelay = 2 * time.Second

	// DefaultMaxRetries 未配置 max_retries 时使用
	DefaultMaxRetries = 3
)

// LLMConfig OpenAI 兼容接口配置
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewChatModel 创建 OpenAI 兼容的 eino ChatModel
func NewChatModel(ctx context.Context, cfg LLMConfig) (model.BaseChatModel, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

// Config 调用控制参数
type Config struct {
	RPM        int
	QPS        int
	MaxRetries int           // 0 表示不重试
	RetryDelay time.Duration // 429 重试的初始退避，之后按 2 的幂增长
}

// Client 各类分析的调用入口，可并发使用
type Client struct {
	chat       model.BaseChatModel
	images     ImageGenerator
	prompts    *prompts
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// NewClient 创建分析客户端；images 为 nil 时头图分析不可用
func NewClient(chat model.BaseChatModel, images ImageGenerator, cfg Config) (*Client, error) {
	if chat == nil {
		return nil, errors.New("chat model is required")
	}
	p, err := loadPrompts(promptsYAML)
	if err != nil {
		return nil, err
	}
	if cfg.RPM <= 0 {
		cfg.RPM = defaultRPM
	}
	if cfg.QPS <= 0 {
		cfg.QPS = defaultQPS
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Client{
		chat:       chat,
		images:     images,
		prompts:    p,
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), cfg.QPS),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Summary 生成讨论摘要
func (c *Client) Summary(ctx context.Context, req dm.SummaryRequest) (*dm.Summary, error) {
	var out dm.Summary
	err := c.generate(ctx, dm.KindSummary, req, func(raw []byte) error {
		out = dm.Summary{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
		return validateSummary(&out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// KeyPoints 提取要点与引用
func (c *Client) KeyPoints(ctx context.Context, req dm.KeyPointsRequest) (*dm.KeyPoints, error) {
	var out dm.KeyPoints
	err := c.generate(ctx, dm.KindKeyPoints, req, func(raw []byte) error {
		out = dm.KeyPoints{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
		out.KeyPoints = cleanList(out.KeyPoints)
		out.Quotes = cleanList(out.Quotes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Sentiment 情感分析
func (c *Client) Sentiment(ctx context.Context, req dm.SentimentRequest) (*dm.Sentiment, error) {
	var out dm.Sentiment
	err := c.generate(ctx, dm.KindSentiment, req, func(raw []byte) error {
		var wire struct {
			Sentiment   string `json:"sentiment"`
			Score       number `json:"score"`
			Explanation string `json:"explanation"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return err
		}
		out = dm.Sentiment{Sentiment: wire.Sentiment, Score: float64(wire.Score), Explanation: wire.Explanation}
		return validateSentiment(&out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Links 提取讨论区内的外部链接
func (c *Client) Links(ctx context.Context, req dm.LinksRequest) (dm.Links, error) {
	var out dm.Links
	err := c.generate(ctx, dm.KindLinks, req, func(raw []byte) error {
		var wire []dm.Link
		if err := decodeList(raw, &wire); err != nil {
			return err
		}
		out = validateLinks(wire, req.SourceURL)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WordCloud 生成词云
func (c *Client) WordCloud(ctx context.Context, req dm.WordCloudRequest) (dm.WordCloud, error) {
	var out dm.WordCloud
	err := c.generate(ctx, dm.KindWordCloud, req, func(raw []byte) error {
		var wire []wordWire
		if err := decodeList(raw, &wire); err != nil {
			return err
		}
		out = validateWordCloud(wire)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ActionItems 提取行动项
func (c *Client) ActionItems(ctx context.Context, req dm.ActionItemsRequest) (*dm.ActionItems, error) {
	var out dm.ActionItems
	err := c.generate(ctx, dm.KindActionItems, req, func(raw []byte) error {
		out = dm.ActionItems{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
		out.ActionItems = cleanList(out.ActionItems)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// HeaderImage 生成头图，返回 data URI
func (c *Client) HeaderImage(ctx context.Context, req dm.HeaderImageRequest) (*dm.HeaderImage, error) {
	if c.images == nil {
		return nil, fmt.Errorf("%w: image generation is not configured", ErrUnavailable)
	}
	prompt, err := c.prompts.render(dm.KindHeaderImage, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	uri, err := c.images.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !strings.HasPrefix(uri, "data:image/") {
		return nil, fmt.Errorf("%w: image is not a data URI", ErrValidation)
	}
	return &dm.HeaderImage{ImageURL: uri}, nil
}

// generate 渲染提示词并调用模型，decode 失败时重试，429 时指数退避
func (c *Client) generate(ctx context.Context, kind dm.Kind, req any, decode func(raw []byte) error) error {
	prompt, err := c.prompts.render(kind, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	messages := []*schema.Message{
		{Role: schema.System, Content: c.prompts.system},
		{Role: schema.User, Content: prompt},
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		resp, err := c.chat.Generate(ctx, messages)
		if err != nil {
			if isRateLimited(err) && i < c.maxRetries {
				delay := c.retryDelay * time.Duration(1<<i)
				logger.Log.Warnf("分析 [%s] 被限流，%v 后重试 (%d/%d)", kind, delay, i+1, c.maxRetries)
				if err := sleep(ctx, delay); err != nil {
					return fmt.Errorf("%w: %w", ErrUnavailable, err)
				}
				continue
			}
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		raw, err := extractJSON(resp.Content)
		if err == nil {
			err = decode(raw)
		}
		if err != nil {
			lastErr = err
			logger.Log.Warnf("分析 [%s] 输出无效 (%d/%d): %v", kind, i+1, c.maxRetries+1, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
