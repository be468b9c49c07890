package service

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BerniceZTT/breezy_end/models"

	"gopkg.in/yaml.v3"
)

//go:embed fallbacks.yaml
var fallbackYAML []byte

type fallbackSet struct {
	Customer models.CustomerInsights `yaml:"customer"`
	Business models.BusinessAnalysis `yaml:"business"`
}

var (
	fallbacks     fallbackSet
	fallbacksOnce sync.Once
)

func loadFallbacks() fallbackSet {
	fallbacksOnce.Do(func() {
		if err := yaml.Unmarshal(fallbackYAML, &fallbacks); err != nil {
			panic(fmt.Sprintf("invalid embedded fallbacks.yaml: %v", err))
		}
	})
	return fallbacks
}

// FallbackCustomerInsights 客户洞察兜底内容（副本）
func FallbackCustomerInsights() models.CustomerInsights {
	fb := loadFallbacks().Customer
	return models.CustomerInsights{
		Insights: append([]models.Insight(nil), fb.Insights...),
		Summary:  fb.Summary,
	}
}

// FallbackBusinessAnalysis 业务分析兜底内容（副本）
func FallbackBusinessAnalysis() models.BusinessAnalysis {
	fb := loadFallbacks().Business
	out := models.BusinessAnalysis{
		Overview:         fb.Overview,
		Insights:         append([]models.BusinessInsight(nil), fb.Insights...),
		TopOpportunities: append([]string(nil), fb.TopOpportunities...),
	}
	if fb.KeyMetrics != nil {
		km := *fb.KeyMetrics
		out.KeyMetrics = &km
	}
	return out
}
