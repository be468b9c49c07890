package models

import "encoding/json"

// InsightType 洞察类型
type InsightType string

const (
	InsightUpsellOpportunity    InsightType = "upsell_opportunity"
	InsightRetentionRisk        InsightType = "retention_risk"
	InsightExpansionOpportunity InsightType = "expansion_opportunity"
	InsightLoyaltyIdentified    InsightType = "loyalty_identified"
)

// Priority 优先级 / 影响程度
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight 单个客户洞察
type Insight struct {
	Type       InsightType `json:"type" yaml:"type"`
	Message    string      `json:"message" yaml:"message"`
	Confidence float64     `json:"confidence" yaml:"confidence"`
	Suggestion string      `json:"suggestion" yaml:"suggestion"`
	Priority   Priority    `json:"priority" yaml:"priority"`
}

// CustomerInsights 模型针对单个客户的输出
type CustomerInsights struct {
	Insights []Insight `json:"insights" yaml:"insights"`
	Summary  string    `json:"summary" yaml:"summary"`
}

// CustomerAnalysis 客户分析响应，contact 与 deals 原样回显请求
type CustomerAnalysis struct {
	Contact  json.RawMessage `json:"contact"`
	Deals    json.RawMessage `json:"deals"`
	Insights []Insight `json:"insights"`
	Summary  string    `json:"summary"`
}

// BusinessInsight 业务洞察
type BusinessInsight struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
	Impact         Priority `json:"impact" yaml:"impact"`
}

// KeyMetrics 业务关键指标
type KeyMetrics struct {
	TotalCustomers          int     `json:"total_customers" yaml:"total_customers"`
	ActiveSubscriptions     int     `json:"active_subscriptions" yaml:"active_subscriptions"`
	MonthlyRecurringRevenue float64 `json:"monthly_recurring_revenue" yaml:"monthly_recurring_revenue"`
	ConversionRate          int     `json:"conversion_rate" yaml:"conversion_rate"`
}

// BusinessAnalysis 业务分析响应
type BusinessAnalysis struct {
	Overview         string            `json:"overview" yaml:"overview"`
	KeyMetrics       *KeyMetrics       `json:"key_metrics" yaml:"key_metrics"`
	Insights         []BusinessInsight `json:"insights" yaml:"insights"`
	TopOpportunities []string          `json:"top_opportunities" yaml:"top_opportunities"`
}

// AnalyseCustomerRequest 客户分析请求
type AnalyseCustomerRequest struct {
	Contact *Contact `json:"contact"`
	Deals   []Deal   `json:"deals"`

	rawContact json.RawMessage
	rawDeals   json.RawMessage
}

// UnmarshalJSON 解码的同时保留 contact 与 deals 的原始 JSON
func (r *AnalyseCustomerRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		Contact json.RawMessage `json:"contact"`
		Deals   json.RawMessage `json:"deals"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = AnalyseCustomerRequest{rawContact: raw.Contact, rawDeals: raw.Deals}
	if len(raw.Contact) > 0 {
		if err := json.Unmarshal(raw.Contact, &r.Contact); err != nil {
			return err
		}
	}
	if len(raw.Deals) > 0 {
		if err := json.Unmarshal(raw.Deals, &r.Deals); err != nil {
			return err
		}
	}
	return nil
}

// Echo 请求中的 contact 与 deals；非解码得到的请求按类型重新编码
func (r *AnalyseCustomerRequest) Echo() (contact, deals json.RawMessage) {
	contact, deals = r.rawContact, r.rawDeals
	if contact == nil {
		contact, _ = json.Marshal(r.Contact)
	}
	if deals == nil {
		deals, _ = json.Marshal(r.Deals)
	}
	return contact, deals
}

// AnalyseBusinessRequest 业务分析请求
type AnalyseBusinessRequest struct {
	Contacts []Contact `json:"contacts"`
	Deals    []Deal    `json:"deals"`
}

// AIStatus AI 服务状态
type AIStatus struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Model      string `json:"model,omitempty"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ModelInfo 可用模型
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName,omitempty"`
	Description                string   `json:"description,omitempty"`
	InputTokenLimit            int64    `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit           int64    `json:"outputTokenLimit,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}
