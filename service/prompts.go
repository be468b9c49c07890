package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BerniceZTT/breezy_end/models"
)

// LivenessPrompt AI 连通性探测
const LivenessPrompt = `Say "OK" if you are working.`

const customerPromptTemplate = `
Analyse this customer data and their subscription deals to provide business insights for a smart home thermostat company:

CUSTOMER:
- Name: %s %s
- Email: %s
- Company: %s
- Job Title: %s

SUBSCRIPTION DEALS (%d deals):
%s
Please analyse this customer's behaviour and provide:
1. 2-3 key insights about their subscription patterns
2. Specific suggestions for upselling, retention, or expansion
3. Identify any risks or opportunities

Format the response as JSON with this structure:
{
  "insights": [
    {
      "type": "upsell_opportunity|retention_risk|expansion_opportunity|loyalty_identified",
      "message": "Clear insight description",
      "confidence": 0.85,
      "suggestion": "Actionable suggestion",
      "priority": "high|medium|low"
    }
  ],
  "summary": "Brief overall summary of this customer's value and potential"
}

Be concise and business-focused. If you cannot analyse the data, provide reasonable fallback insights.
`

const businessPromptTemplate = `
Analyse this business data for Breezy smart home company:

TOTAL CUSTOMERS: %d
TOTAL DEALS: %d

DEAL BREAKDOWN:
- Active Subscriptions: %d
- Total Monthly Revenue: $%s
- Conversion Rate: %d%%

Provide 3-5 strategic business insights and recommendations for a smart home thermostat company.

Format as JSON:
{
  "overview": "Brief business overview",
  "key_metrics": {
    "total_customers": %d,
    "active_subscriptions": %d,
    "monthly_recurring_revenue": %s,
    "conversion_rate": %d
  },
  "insights": [
    {
      "title": "Insight title",
      "description": "Detailed insight",
      "recommendation": "Actionable recommendation",
      "impact": "high|medium|low"
    }
  ],
  "top_opportunities": ["Opportunity 1", "Opportunity 2", "Opportunity 3"]
}

If you cannot analyse the data, provide reasonable fallback business insights.
`

// BuildCustomerPrompt 单客户分析提示词
func BuildCustomerPrompt(contact *models.Contact, deals []models.Deal) string {
	props := models.Properties{}
	if contact != nil && contact.Properties != nil {
		props = contact.Properties
	}

	var lines strings.Builder
	for _, d := range deals {
		fmt.Fprintf(&lines, "- %s: $%s (Stage: %s)\n",
			d.Properties.GetOr("dealname", "Unknown Deal"),
			d.Properties.GetOr("amount", "0"),
			d.Properties.GetOr("dealstage", "unknown"),
		)
	}

	return fmt.Sprintf(customerPromptTemplate,
		props.GetOr("firstname", "Unknown"),
		props.GetOr("lastname", "Unknown"),
		props.GetOr("email", "Not provided"),
		props.GetOr("company", "Not provided"),
		props.GetOr("jobtitle", "Not provided"),
		len(deals),
		lines.String(),
	)
}

// BuildBusinessPrompt 业务分析提示词，指标由调用方预先计算
func BuildBusinessPrompt(metrics models.KeyMetrics, totalDeals int) string {
	mrr := FormatAmount(metrics.MonthlyRecurringRevenue)
	return fmt.Sprintf(businessPromptTemplate,
		metrics.TotalCustomers,
		totalDeals,
		metrics.ActiveSubscriptions,
		mrr,
		metrics.ConversionRate,
		metrics.TotalCustomers,
		metrics.ActiveSubscriptions,
		mrr,
		metrics.ConversionRate,
	)
}

// FormatAmount 金额的最短十进制表示
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
