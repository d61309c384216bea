package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/crowd_voice/internal/biz"
	"github.com/iWorld-y/crowd_voice/internal/conf"
	"github.com/iWorld-y/crowd_voice/pkg/analysis"
	"github.com/iWorld-y/crowd_voice/pkg/fetcher"
)

// NewFetcher 创建内容抓取器
func NewFetcher(c *conf.Fetch) biz.Fetcher {
	if c == nil {
		c = &conf.Fetch{}
	}
	return fetcher.New(fetcher.Config{
		Timeout:      conf.Duration(c.Timeout, 0),
		MaxBodyBytes: c.MaxBodyBytes,
		UserAgent:    c.UserAgent,
	})
}

// NewAnalyzer 创建 LLM 分析客户端，头图生成按配置启用
func NewAnalyzer(c *conf.LLM, ci *conf.Image, logger log.Logger) (biz.Analyzer, error) {
	helper := log.NewHelper(logger)
	if c == nil {
		c = &conf.LLM{}
	}
	chat, err := analysis.NewChatModel(context.Background(), analysis.LLMConfig{
		BaseURL: c.BaseUrl,
		APIKey:  c.ApiKey,
		Model:   c.Model,
	})
	if err != nil {
		return nil, err
	}

	var images analysis.ImageGenerator
	if ci != nil && ci.Enabled {
		apiKey, baseURL := ci.ApiKey, ci.BaseUrl
		if apiKey == "" {
			apiKey, baseURL = c.ApiKey, c.BaseUrl
		}
		images = analysis.NewOpenAIImages(analysis.ImageConfig{
			BaseURL: baseURL,
			APIKey:  apiKey,
			Model:   ci.Model,
			Size:    ci.Size,
		})
	} else {
		helper.Warn("头图生成未启用，headerImage 分析将失败")
	}

	client, err := analysis.NewClient(chat, images, analysis.Config{
		RPM:        int(c.Rpm),
		QPS:        int(c.Qps),
		MaxRetries: maxRetries(c),
		RetryDelay: conf.Duration(c.RetryDelay, 0),
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// maxRetries 未配置时取默认值，显式配置的 0 表示不重试
func maxRetries(c *conf.LLM) int {
	if c.MaxRetries == nil {
		return analysis.DefaultMaxRetries
	}
	return int(*c.MaxRetries)
}
