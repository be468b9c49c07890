package dashboard

import (
	"strings"
	"unicode"

	"github.com/BerniceZTT/breezy_end/models"
)

// 交易阶段样式类
const (
	StageClassClosedWon  = "closed-won"
	StageClassClosedLost = "closed-lost"
	StageClassInProgress = "in-progress"
	StageClassEarly      = "early-stage"
)

// 置信度等级
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// SubscriptionTemplate 创建交易时可选的订阅模板
type SubscriptionTemplate struct {
	Name   string
	Amount string
	Stage  models.DealStage
}

// DealStages 可选的交易阶段
func DealStages() []models.DealStage {
	return []models.DealStage{
		models.DealStageAppointmentScheduled,
		models.DealStageQualifiedToBuy,
		models.DealStagePresentationScheduled,
		models.DealStageDecisionMakerBoughtIn,
		models.DealStageContractSent,
		models.DealStageClosedWon,
		models.DealStageClosedLost,
	}
}

// SubscriptionTemplates 订阅模板
func SubscriptionTemplates() []SubscriptionTemplate {
	return []SubscriptionTemplate{
		{Name: "Breezy Premium - Monthly Subscription", Amount: "9.99", Stage: models.DealStageClosedWon},
		{Name: "Breezy Premium - Annual Subscription", Amount: "99", Stage: models.DealStageClosedWon},
		{Name: "Breezy Premium - Lifetime Access", Amount: "299", Stage: models.DealStageClosedWon},
		{Name: "Trial Extension - 60 Days", Amount: "0", Stage: models.DealStagePresentationScheduled},
		{Name: "Failed Conversion - Trial Expired", Amount: "0", Stage: models.DealStageClosedLost},
	}
}

// FindSubscriptionTemplate 按名称查找模板
func FindSubscriptionTemplate(name string) (SubscriptionTemplate, bool) {
	for _, t := range SubscriptionTemplates() {
		if t.Name == name {
			return t, true
		}
	}
	return SubscriptionTemplate{}, false
}

// Properties 模板对应的交易属性
func (t SubscriptionTemplate) Properties() models.Properties {
	return models.Properties{
		"dealname":  t.Name,
		"amount":    t.Amount,
		"dealstage": string(t.Stage),
	}
}

// FormatDealStage 在每个大写字母前加空格并首字母大写；空值显示 Unknown
func FormatDealStage(stage string) string {
	if stage == "" {
		return "Unknown"
	}
	var b strings.Builder
	for i, r := range stage {
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// DealStageClass 交易阶段对应的样式类
func DealStageClass(stage models.DealStage) string {
	switch stage {
	case models.DealStageClosedWon:
		return StageClassClosedWon
	case models.DealStageClosedLost:
		return StageClassClosedLost
	case models.DealStageContractSent, models.DealStageDecisionMakerBoughtIn:
		return StageClassInProgress
	default:
		return StageClassEarly
	}
}

// FormatInsightType 下划线换成空格，每个单词首字母大写
func FormatInsightType(t models.InsightType) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ConfidenceLevel 置信度分级
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return ConfidenceHigh
	case confidence >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// InsightIcon 洞察类型图标
func InsightIcon(t models.InsightType) string {
	switch t {
	case models.InsightUpsellOpportunity:
		return "📈"
	case models.InsightRetentionRisk:
		return "⚠️"
	case models.InsightExpansionOpportunity:
		return "🏠"
	case models.InsightLoyaltyIdentified:
		return "⭐"
	default:
		return "💡"
	}
}
