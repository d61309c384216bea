package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ImageGenerator 根据提示词生成图片，返回 data URI
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageConfig 图片接口配置
type ImageConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Size    string
}

// OpenAIImages 基于 OpenAI Images API 的 ImageGenerator
type OpenAIImages struct {
	client *openai.Client
	model  string
	size   string
}

// NewOpenAIImages 创建图片生成器
func NewOpenAIImages(cfg ImageConfig) *OpenAIImages {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "dall-e-3"
	}
	if cfg.Size == "" {
		cfg.Size = "1792x1024"
	}
	return &OpenAIImages{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		size:   cfg.Size,
	}
}

func (g *OpenAIImages) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           g.size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", errors.New("image generation returned no data")
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}
