package service

import (
	"context"
	"errors"

	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/utils"
)

// AI 状态响应文案
const (
	StatusConnected        = "connected"
	StatusError            = "error"
	StatusConnectedMessage = "AI service is properly configured and responding"
	StatusErrorMessage     = "AI service is not properly configured"
	StatusErrorSuggestion  = "Check your API key and available models"
)

// Analyst 组装提示词、调用模型并归一化结果
type Analyst struct {
	gen Generator
}

// NewAnalyst 创建分析服务
func NewAnalyst(gen Generator) *Analyst {
	return &Analyst{gen: gen}
}

// Model 当前模型名称
func (a *Analyst) Model() string {
	return a.gen.Model()
}

// AnalyseCustomer 单客户分析；contact 与 deals 原样回显，模型失败时使用兜底内容，缺字段时逐字段补齐
func (a *Analyst) AnalyseCustomer(ctx context.Context, req *models.AnalyseCustomerRequest) models.CustomerAnalysis {
	contact, deals := req.Echo()
	result := models.CustomerAnalysis{Contact: contact, Deals: deals}

	text, err := a.gen.Generate(ctx, CompletionRequest{Prompt: BuildCustomerPrompt(req.Contact, req.Deals), JSON: true})
	if err != nil {
		utils.LogError(err, map[string]interface{}{"model": a.gen.Model()}, "AI客户分析失败")
		fallback := FallbackCustomerInsights()
		result.Insights, result.Summary = fallback.Insights, fallback.Summary
		return result
	}

	parsed, _ := ParseCustomerInsights(text)
	result.Insights, result.Summary = parsed.Insights, parsed.Summary
	return result
}

// AnalyseBusiness 业务分析；关键指标始终使用本地计算值覆盖模型输出
func (a *Analyst) AnalyseBusiness(ctx context.Context, contacts []models.Contact, deals []models.Deal) models.BusinessAnalysis {
	metrics := models.ComputeKeyMetrics(contacts, deals)

	var result models.BusinessAnalysis
	text, err := a.gen.Generate(ctx, CompletionRequest{Prompt: BuildBusinessPrompt(metrics, len(deals)), JSON: true})
	if err != nil {
		utils.LogError(err, map[string]interface{}{"model": a.gen.Model()}, "AI业务分析失败")
		result = FallbackBusinessAnalysis()
	} else {
		result, _ = ParseBusinessAnalysis(text)
	}
	result.KeyMetrics = &metrics
	return result
}

// Status 发送探测提示词检查模型是否可用
func (a *Analyst) Status(ctx context.Context) (models.AIStatus, error) {
	if _, err := a.gen.Generate(ctx, CompletionRequest{Prompt: LivenessPrompt}); err != nil {
		return models.AIStatus{
			Status:     StatusError,
			Message:    StatusErrorMessage,
			Error:      err.Error(),
			Suggestion: StatusErrorSuggestion,
		}, err
	}
	return models.AIStatus{
		Status:  StatusConnected,
		Message: StatusConnectedMessage,
		Model:   a.gen.Model(),
	}, nil
}

// Ping 发送探测提示词并返回模型原文
func (a *Analyst) Ping(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		prompt = LivenessPrompt
	}
	return a.gen.Generate(ctx, CompletionRequest{Prompt: prompt})
}

// Models 列出可用模型，失败或不支持时返回空列表
func (a *Analyst) Models(ctx context.Context) []models.ModelInfo {
	lister, ok := a.gen.(ModelLister)
	if !ok {
		utils.Logger.Warn().Err(ErrModelListingUnsupported).Str("model", a.gen.Model()).Msg("获取模型列表失败")
		return []models.ModelInfo{}
	}
	list, err := lister.ListModels(ctx)
	if err != nil {
		utils.LogError(err, nil, "获取模型列表失败")
		return []models.ModelInfo{}
	}
	if list == nil {
		return []models.ModelInfo{}
	}
	utils.Logger.Debug().Int("count", len(list)).Msg("可用模型")
	return list
}

// ListModels 列出可用模型，错误原样返回
func (a *Analyst) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	lister, ok := a.gen.(ModelLister)
	if !ok {
		return nil, ErrModelListingUnsupported
	}
	return lister.ListModels(ctx)
}

// IsUnsupported 是否为不支持的操作
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrModelListingUnsupported)
}
