package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerJSON = `{
  "insights": [
    {"type": "loyalty_identified", "message": "Long-time annual subscriber", "confidence": 0.9, "suggestion": "Invite to referral programme", "priority": "high"}
  ],
  "summary": "High-value loyal customer"
}`

func TestExtractJSONFencedMatchesPlain(t *testing.T) {
	plain, err := ExtractJSON(customerJSON)
	require.NoError(t, err)

	fenced, err := ExtractJSON("```json\n" + customerJSON + "\n```")
	require.NoError(t, err)

	var a, b interface{}
	require.NoError(t, json.Unmarshal(plain, &a))
	require.NoError(t, json.Unmarshal(fenced, &b))
	assert.Equal(t, a, b)
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	raw, err := ExtractJSON(`Sure! Here is the analysis: {"summary": "ok", "nested": {"a": [1, {"b": 2}]}} Let me know if you need more.`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary": "ok", "nested": {"a": [1, {"b": 2}]}}`, string(raw))
}

func TestExtractJSONTakesFirstOfSeveralObjects(t *testing.T) {
	raw, err := ExtractJSON(`{"a": 1}\n{"b": 2}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(raw))
}

func TestExtractJSONSkipsBrokenLeadingBrace(t *testing.T) {
	raw, err := ExtractJSON(`use {curly} braces: {"summary": "second"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary": "second"}`, string(raw))
}

func TestExtractJSONNoObject(t *testing.T) {
	_, err := ExtractJSON("I cannot analyse this data.")
	assert.True(t, errors.Is(err, ErrNoJSON))

	_, err = ExtractJSON(`{"unterminated": `)
	assert.True(t, errors.Is(err, ErrNoJSON))
}

func TestParseCustomerInsights(t *testing.T) {
	parsed, usedFallback := ParseCustomerInsights("```json\n" + customerJSON + "\n```")
	assert.False(t, usedFallback)
	require.Len(t, parsed.Insights, 1)
	assert.Equal(t, "loyalty_identified", string(parsed.Insights[0].Type))
	assert.InDelta(t, 0.9, parsed.Insights[0].Confidence, 1e-9)
	assert.Equal(t, "High-value loyal customer", parsed.Summary)
}

func TestParseCustomerInsightsFallback(t *testing.T) {
	parsed, usedFallback := ParseCustomerInsights("no json here")
	assert.True(t, usedFallback)
	assert.Equal(t, FallbackCustomerInsights(), parsed)
	require.Len(t, parsed.Insights, 2)
	for _, in := range parsed.Insights {
		assert.NotEmpty(t, in.Type)
		assert.NotEmpty(t, in.Message)
		assert.NotZero(t, in.Confidence)
		assert.NotEmpty(t, in.Suggestion)
		assert.NotEmpty(t, in.Priority)
	}
	assert.NotEmpty(t, parsed.Summary)
}

func TestParseCustomerInsightsFallsBackPerField(t *testing.T) {
	parsed, usedFallback := ParseCustomerInsights(`{"insights": "none", "summary": 3}`)
	assert.True(t, usedFallback)
	assert.Equal(t, FallbackCustomerInsights(), parsed)

	parsed, usedFallback = ParseCustomerInsights(`{"insights": [{"type": "retention_risk", "confidence": "0.9"}], "summary": "Loyal annual customer"}`)
	assert.True(t, usedFallback)
	assert.Equal(t, "Loyal annual customer", parsed.Summary)
	assert.Equal(t, FallbackCustomerInsights().Insights, parsed.Insights)

	parsed, usedFallback = ParseCustomerInsights(`{"insights": [], "summary": null}`)
	assert.True(t, usedFallback)
	assert.NotNil(t, parsed.Insights)
	assert.Empty(t, parsed.Insights)
	assert.Equal(t, FallbackCustomerInsights().Summary, parsed.Summary)
}

func TestParseBusinessAnalysisSkipsModelMetrics(t *testing.T) {
	parsed, usedFallback := ParseBusinessAnalysis(`{
		"overview": "Strong Q3 growth",
		"key_metrics": {"total_customers": "many", "conversion_rate": 33.3},
		"insights": [{"title": "T", "description": "D", "recommendation": "R", "impact": "high"}],
		"top_opportunities": ["Annual upsell"]
	}`)
	assert.False(t, usedFallback)
	assert.Equal(t, "Strong Q3 growth", parsed.Overview)
	require.Len(t, parsed.Insights, 1)
	assert.Equal(t, []string{"Annual upsell"}, parsed.TopOpportunities)
	require.NotNil(t, parsed.KeyMetrics)
	assert.Zero(t, parsed.KeyMetrics.ConversionRate)
}

func TestParseBusinessAnalysisMergesMissingFields(t *testing.T) {
	parsed, usedFallback := ParseBusinessAnalysis(`{"overview": "Only an overview", "insights": {"bad": true}}`)
	assert.True(t, usedFallback)

	fb := FallbackBusinessAnalysis()
	assert.Equal(t, "Only an overview", parsed.Overview)
	assert.Equal(t, fb.Insights, parsed.Insights)
	assert.Equal(t, fb.TopOpportunities, parsed.TopOpportunities)
}

func TestParseBusinessAnalysisFallback(t *testing.T) {
	parsed, usedFallback := ParseBusinessAnalysis("The model is overloaded")
	assert.True(t, usedFallback)

	assert.NotEmpty(t, parsed.Overview)
	require.NotNil(t, parsed.KeyMetrics)
	assert.Zero(t, parsed.KeyMetrics.TotalCustomers)
	assert.Len(t, parsed.Insights, 2)
	assert.Len(t, parsed.TopOpportunities, 3)
}

func TestFallbacksAreCopies(t *testing.T) {
	a := FallbackCustomerInsights()
	a.Insights[0].Message = "mutated"

	b := FallbackCustomerInsights()
	assert.NotEqual(t, "mutated", b.Insights[0].Message)

	biz := FallbackBusinessAnalysis()
	biz.KeyMetrics.TotalCustomers = 99
	biz.TopOpportunities[0] = "mutated"
	again := FallbackBusinessAnalysis()
	assert.Zero(t, again.KeyMetrics.TotalCustomers)
	assert.NotEqual(t, "mutated", again.TopOpportunities[0])
}
