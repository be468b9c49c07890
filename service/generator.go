package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BerniceZTT/breezy_end/config"
	"github.com/BerniceZTT/breezy_end/models"
)

// ErrModelListingUnsupported 当前提供方不支持列出模型
var ErrModelListingUnsupported = errors.New("model listing is not supported by this AI provider")

// CompletionRequest 单次补全请求
type CompletionRequest struct {
	Prompt string
	// JSON 要求模型输出 JSON（提供方支持时通过参数声明，否则只靠提示词）
	JSON bool
}

// Generator 单轮文本生成
type Generator interface {
	Generate(ctx context.Context, req CompletionRequest) (string, error)
	Model() string
}

// ModelLister 可列出可用模型的提供方
type ModelLister interface {
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
}

// NewGenerator 按配置创建 AI 提供方
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.AIProvider {
	case config.ProviderGemini, "":
		return NewGeminiGenerator(ctx, cfg.GoogleAIKey, cfg.AIModel, WithGeminiBaseURL(cfg.GeminiBaseURL))
	case config.ProviderOpenAI:
		return NewChatModelGenerator(ctx, cfg.GoogleAIKey, cfg.GeminiOpenAIBaseURL, cfg.AIModel)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.AIProvider)
	}
}

var (
	analyst     *Analyst
	analystLock sync.RWMutex
)

// InitAI 初始化全局分析服务
func InitAI(gen Generator) *Analyst {
	a := NewAnalyst(gen)
	analystLock.Lock()
	analyst = a
	analystLock.Unlock()
	return a
}

// AI 获取全局分析服务
func AI() *Analyst {
	analystLock.RLock()
	defer analystLock.RUnlock()
	return analyst
}
