package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/utils"
)

// ErrNoJSON 模型输出中没有 JSON 对象
var ErrNoJSON = errors.New("no valid JSON found in AI response")

var codeFence = regexp.MustCompile("```json\\s*|\\s*```")

// ExtractJSON 从模型文本中取出第一个完整的 JSON 对象，之后的文本丢弃
func ExtractJSON(text string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))

	var lastErr error
	for offset := 0; offset < len(cleaned); {
		idx := strings.IndexByte(cleaned[offset:], '{')
		if idx < 0 {
			break
		}
		start := offset + idx

		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(cleaned[start:]))
		err := dec.Decode(&raw)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		offset = start + 1
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, lastErr)
	}
	return nil, ErrNoJSON
}

// ParseCustomerInsights 解析客户洞察；逐字段解码，缺失或类型不符的字段使用客户兜底内容
func ParseCustomerInsights(text string) (models.CustomerInsights, bool) {
	fallback := FallbackCustomerInsights()
	fields, err := decodeModelFields(text)
	if err != nil {
		logParseFailure(err, text, "customer")
		return fallback, true
	}

	out := fallback
	usedFallback := false
	if !decodeField(fields, "insights", &out.Insights, "customer") || out.Insights == nil {
		out.Insights, usedFallback = fallback.Insights, true
	}
	if !decodeField(fields, "summary", &out.Summary, "customer") || out.Summary == "" {
		out.Summary, usedFallback = fallback.Summary, true
	}
	return out, usedFallback
}

// ParseBusinessAnalysis 解析业务分析；key_metrics 不解码，由调用方用本地计算值填充
func ParseBusinessAnalysis(text string) (models.BusinessAnalysis, bool) {
	fallback := FallbackBusinessAnalysis()
	fields, err := decodeModelFields(text)
	if err != nil {
		logParseFailure(err, text, "business")
		return fallback, true
	}

	out := models.BusinessAnalysis{KeyMetrics: fallback.KeyMetrics}
	usedFallback := false
	if !decodeField(fields, "overview", &out.Overview, "business") || out.Overview == "" {
		out.Overview, usedFallback = fallback.Overview, true
	}
	if !decodeField(fields, "insights", &out.Insights, "business") || out.Insights == nil {
		out.Insights, usedFallback = fallback.Insights, true
	}
	if !decodeField(fields, "top_opportunities", &out.TopOpportunities, "business") || out.TopOpportunities == nil {
		out.TopOpportunities, usedFallback = fallback.TopOpportunities, true
	}
	return out, usedFallback
}

// decodeModelFields 取出模型输出中的 JSON 对象，按顶层字段拆分
func decodeModelFields(text string) (map[string]json.RawMessage, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeField 解码单个字段，字段缺失或解码失败时返回 false 且不修改 out
func decodeField[T any](fields map[string]json.RawMessage, name string, out *T, context string) bool {
	raw, ok := fields[name]
	if !ok {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		utils.Logger.Warn().
			Err(err).
			Str("context", context).
			Str("field", name).
			Msg("AI响应字段解析失败，该字段使用兜底内容")
		return false
	}
	*out = v
	return true
}

func logParseFailure(err error, text, context string) {
	utils.Logger.Warn().
		Err(err).
		Str("context", context).
		Str("raw", text).
		Msg("AI响应解析失败，使用兜底内容")
}
