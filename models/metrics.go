package models

import (
	"math"
	"strings"
)

// DealList 交易列表上的统计
type DealList []Deal

// ClosedWon 已成交（即生效中的订阅）
func (l DealList) ClosedWon() DealList {
	out := make(DealList, 0, len(l))
	for _, d := range l {
		if d.Stage() == DealStageClosedWon {
			out = append(out, d)
		}
	}
	return out
}

// ActiveSubscriptions 生效订阅数
func (l DealList) ActiveSubscriptions() int {
	return len(l.ClosedWon())
}

// TotalRevenue 已成交交易金额合计
func (l DealList) TotalRevenue() float64 {
	var total float64
	for _, d := range l.ClosedWon() {
		total += d.Amount()
	}
	return total
}

// MonthlyRecurringRevenue 月度经常性收入：已成交且名称含 "monthly"（不区分大小写）
func (l DealList) MonthlyRecurringRevenue() float64 {
	var total float64
	for _, d := range l.ClosedWon() {
		if strings.Contains(strings.ToLower(d.Name()), "monthly") {
			total += d.Amount()
		}
	}
	return total
}

// WinRate 已成交占比（百分比取整），无交易时为 0
func (l DealList) WinRate() int {
	if len(l) == 0 {
		return 0
	}
	return int(math.Round(float64(l.ActiveSubscriptions()) / float64(len(l)) * 100))
}

// ForContact 关联到指定联系人的交易
func (l DealList) ForContact(contactID string) DealList {
	out := make(DealList, 0)
	for _, d := range l {
		if d.HasContact(contactID) {
			out = append(out, d)
		}
	}
	return out
}

// ConversionRate 转化率：有任意交易关联的不同联系人数 / 联系人总数，百分比取整
func ConversionRate(contacts []Contact, deals []Deal) int {
	if len(contacts) == 0 {
		return 0
	}
	withDeals := make(map[string]struct{})
	for _, d := range deals {
		for _, id := range d.ContactIDs() {
			withDeals[id] = struct{}{}
		}
	}
	return int(math.Round(float64(len(withDeals)) / float64(len(contacts)) * 100))
}

// ComputeKeyMetrics 计算业务关键指标
func ComputeKeyMetrics(contacts []Contact, deals []Deal) KeyMetrics {
	list := DealList(deals)
	return KeyMetrics{
		TotalCustomers:          len(contacts),
		ActiveSubscriptions:     list.ActiveSubscriptions(),
		MonthlyRecurringRevenue: list.MonthlyRecurringRevenue(),
		ConversionRate:          ConversionRate(contacts, deals),
	}
}
