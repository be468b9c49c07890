package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/BerniceZTT/breezy_end/models"

	"google.golang.org/genai"
)

// GeminiOption 调整 Gemini 客户端配置
type GeminiOption func(*genai.ClientConfig)

// WithGeminiBaseURL 覆盖 Gemini API 地址
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(cc *genai.ClientConfig) {
		cc.HTTPOptions.BaseURL = baseURL
	}
}

// WithGeminiHTTPClient 使用自定义 http.Client
func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(cc *genai.ClientConfig) {
		cc.HTTPClient = hc
	}
}

// GeminiGenerator 基于 Gemini Go SDK 的实现
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator 创建 Gemini 客户端
func NewGeminiGenerator(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*GeminiGenerator, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Model 模型名称
func (g *GeminiGenerator) Model() string { return g.model }

// Generate 单次生成，返回首个候选的全部文本
func (g *GeminiGenerator) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	var cfg *genai.GenerateContentConfig
	if req.JSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generateContent: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned empty content (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}

// ListModels 列出可用模型，自动翻页
func (g *GeminiGenerator) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	var out []models.ModelInfo
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini listModels: %w", err)
		}
		out = append(out, models.ModelInfo{
			Name:                       m.Name,
			DisplayName:                m.DisplayName,
			Description:                m.Description,
			InputTokenLimit:            int64(m.InputTokenLimit),
			OutputTokenLimit:           int64(m.OutputTokenLimit),
			SupportedGenerationMethods: m.SupportedActions,
		})
	}
	return out, nil
}
