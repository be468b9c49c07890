package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger 全局日志对象
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitLogger 初始化日志系统
func InitLogger(level, format string) {
	InitLoggerWithWriter(os.Stdout, level, format)
}

// InitLoggerWithWriter 使用指定输出初始化日志系统
func InitLoggerWithWriter(out io.Writer, level, format string) {
	// 配置日志输出
	output := out
	if strings.ToLower(format) != "json" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	// 创建日志记录器
	Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(lvl)

	Logger.Debug().Str("level", lvl.String()).Str("format", format).Msg("日志系统初始化完成")
}

// LogApiRequest 记录API请求
func LogApiRequest(requestID, method, url string, params, body interface{}, headers map[string]string) {
	// 过滤敏感信息
	if headers != nil && headers["Authorization"] != "" {
		if len(headers["Authorization"]) > 15 {
			headers["Authorization"] = headers["Authorization"][:15] + "..."
		}
	}

	Logger.Info().
		Str("requestId", requestID).
		Str("method", method).
		Str("url", url).
		Interface("params", params).
		Interface("body", body).
		Interface("headers", headers).
		Msg("API请求")
}

// LogApiResponse 记录API响应
func LogApiResponse(requestID, method, url string, statusCode int, responseTime time.Duration, responseBody interface{}) {
	event := Logger.Info()
	if statusCode >= 400 {
		event = Logger.Error()
	}
	event.
		Str("requestId", requestID).
		Str("method", method).
		Str("url", url).
		Int("statusCode", statusCode).
		Dur("responseTime", responseTime).
		Interface("body", responseBody).
		Msg("API响应")
}

// LogUpstreamCall 记录上游服务调用
func LogUpstreamCall(service, method, path string, statusCode int, elapsed time.Duration, err error) {
	event := Logger.Debug()
	if err != nil || statusCode >= 400 {
		event = Logger.Warn().Err(err)
	}
	event.
		Str("upstream", service).
		Str("method", method).
		Str("path", path).
		Int("statusCode", statusCode).
		Dur("elapsed", elapsed).
		Msg("上游调用")
}

// LogInfo 记录
func LogInfo(context map[string]interface{}, message string) {
	Logger.Info().
		Interface("context", context).
		Msg(message)
}

// LogError 记录错误
func LogError(err error, context map[string]interface{}, message string) {
	Logger.Error().
		Err(err).
		Interface("context", context).
		Msg(message)
}
