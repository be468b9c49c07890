package dashboard

import (
	"fmt"
	"strings"

	"github.com/BerniceZTT/breezy_end/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(24)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	stageStyles = map[string]lipgloss.Style{
		StageClassClosedWon:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		StageClassClosedLost: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		StageClassInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		StageClassEarly:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
)

func renderField(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func renderDeal(deal models.Deal) string {
	stage := deal.Stage()
	style := stageStyles[DealStageClass(stage)]
	return fmt.Sprintf("  • %-40s $%-10s %s\n",
		deal.Properties.GetOr("dealname", "Untitled deal"),
		deal.Properties.GetOr("amount", "0"),
		style.Render(FormatDealStage(string(stage))))
}

// RenderOverview 总览：AI 状态、业务指标与全部交易
func RenderOverview(contacts []models.Contact, deals []models.Deal, status *models.AIStatus, statusErr error) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("BREEZY SUBSCRIPTIONS"))
	s.WriteString("\n")

	switch {
	case statusErr != nil:
		s.WriteString(renderField("AI service", errorStyle.Render(statusErr.Error())))
	case status != nil:
		s.WriteString(renderField("AI service", fmt.Sprintf("%s (%s)", status.Status, status.Model)))
	}

	metrics := models.ComputeKeyMetrics(contacts, deals)
	s.WriteString(renderField("Customers", fmt.Sprint(metrics.TotalCustomers)))
	s.WriteString(renderField("Active subscriptions", fmt.Sprint(metrics.ActiveSubscriptions)))
	s.WriteString(renderField("Monthly revenue", "$"+formatMoney(metrics.MonthlyRecurringRevenue)))
	s.WriteString(renderField("Total revenue", "$"+formatMoney(models.DealList(deals).TotalRevenue())))
	s.WriteString(renderField("Conversion rate", fmt.Sprintf("%d%%", metrics.ConversionRate)))

	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("All Deals (%d)", len(deals))))
	s.WriteString("\n")
	if len(deals) == 0 {
		s.WriteString(mutedStyle.Render("  No deals found"))
		s.WriteString("\n")
	}
	for _, deal := range deals {
		s.WriteString(renderDeal(deal))
	}
	return s.String()
}

// RenderContact 单个客户：资料、交易、订阅与 AI 分析
func RenderContact(sub *CustomerSubscription, deals []models.Deal, analysis *models.CustomerAnalysis) string {
	var s strings.Builder
	contact := sub.Contact
	s.WriteString(titleStyle.Render("Deals - " + contact.FullName()))
	s.WriteString("\n")

	s.WriteString(renderField("Email", contact.Properties.GetOr("email", "Not provided")))
	s.WriteString(renderField("Phone", contact.Properties.GetOr("phone", "Not provided")))
	s.WriteString(renderField("Company", contact.Properties.GetOr("company", "Not provided")))
	s.WriteString(renderField("Active subscriptions", fmt.Sprint(len(sub.ActiveSubscriptions))))
	s.WriteString(renderField("Total revenue", "$"+formatMoney(sub.TotalMonthlyRevenue)))
	s.WriteString(renderField("Win rate", fmt.Sprintf("%d%%", models.DealList(deals).WinRate())))

	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Deals (%d)", len(deals))))
	s.WriteString("\n")
	for _, deal := range deals {
		s.WriteString(renderDeal(deal))
	}

	if analysis != nil {
		s.WriteString("\n")
		s.WriteString(headerStyle.Render("AI Insights"))
		s.WriteString("\n")
		s.WriteString(valueStyle.Render(analysis.Summary))
		s.WriteString("\n")
		for _, in := range analysis.Insights {
			fmt.Fprintf(&s, "  %s %s [%s, %s]\n    %s\n    %s\n",
				InsightIcon(in.Type),
				FormatInsightType(in.Type),
				ConfidenceLevel(in.Confidence),
				in.Priority,
				in.Message,
				mutedStyle.Render(in.Suggestion))
		}
	}
	return s.String()
}

// formatMoney 保留至多两位小数
func formatMoney(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
