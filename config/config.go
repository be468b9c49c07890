package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// 上游服务固定地址与端口
const (
	Port               = 3001
	HubSpotAPIBase     = "https://api.hubapi.com"
	GeminiAPIBase      = "https://generativelanguage.googleapis.com/"
	GeminiOpenAIBase   = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultPageSize    = 50
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	defaultEnvFileName = ".env"
)

// Config 应用配置
type Config struct {
	HubSpotToken        string   `envconfig:"HUBSPOT_ACCESS_TOKEN"`
	GoogleAIKey         string   `envconfig:"GOOGLE_AI_API_KEY"`
	AssociationTypeID   int      `envconfig:"HUBSPOT_ASSOCIATION_TYPE_ID" default:"3"`
	AIModel             string   `envconfig:"AI_MODEL" default:"gemini-2.5-flash"`
	AIProvider          string   `envconfig:"AI_PROVIDER" default:"gemini"`
	GinMode             string   `envconfig:"GIN_MODE" default:"debug"`
	LogLevel            string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat           string   `envconfig:"LOG_FORMAT" default:"console"`
	PublicDir           string   `envconfig:"PUBLIC_DIR" default:"public"`
	CORSOrigins         []string `envconfig:"CORS_ORIGINS"`
	Port                int      `ignored:"true"`
	HubSpotBaseURL      string   `ignored:"true"`
	GeminiBaseURL       string   `ignored:"true"`
	GeminiOpenAIBaseURL string   `ignored:"true"`
}

// Debug 是否处于调试模式
func (c *Config) Debug() bool {
	return c.GinMode == "debug"
}

// MissingEnvError 必填环境变量缺失
type MissingEnvError struct {
	Name string
	Hint string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("%s not found in environment or .env file: %s", e.Name, e.Hint)
}

// LoadConfig 从 .env 与环境变量加载配置
func LoadConfig() (*Config, error) {
	if err := loadEnvFile(defaultEnvFileName); err != nil {
		return nil, err
	}
	return FromEnv()
}

// FromEnv 只读取进程环境变量
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	cfg.Port = Port
	cfg.HubSpotBaseURL = HubSpotAPIBase
	cfg.GeminiBaseURL = GeminiAPIBase
	cfg.GeminiOpenAIBaseURL = GeminiOpenAIBase
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if c.HubSpotToken == "" {
		return &MissingEnvError{Name: "HUBSPOT_ACCESS_TOKEN", Hint: "add your HubSpot Private App token"}
	}
	if c.GoogleAIKey == "" {
		return &MissingEnvError{Name: "GOOGLE_AI_API_KEY", Hint: "add your Google API Key"}
	}
	switch c.AIProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q (expected %q or %q)", c.AIProvider, ProviderGemini, ProviderOpenAI)
	}
	if c.AssociationTypeID <= 0 {
		return fmt.Errorf("HUBSPOT_ASSOCIATION_TYPE_ID must be positive, got %d", c.AssociationTypeID)
	}
	return nil
}

// loadEnvFile 加载 .env，文件不存在时忽略
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading %s: %w", path, err)
}
