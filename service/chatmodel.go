package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelGenerator 通过 OpenAI 兼容接口调用模型
type ChatModelGenerator struct {
	chat  model.BaseChatModel
	model string
}

// NewChatModelGenerator 创建 OpenAI 兼容的聊天模型
func NewChatModelGenerator(ctx context.Context, apiKey, baseURL, modelName string) (*ChatModelGenerator, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}
	return NewChatModelGeneratorFrom(cm, modelName), nil
}

// NewChatModelGeneratorFrom 包装已有的 eino 聊天模型
func NewChatModelGeneratorFrom(chat model.BaseChatModel, modelName string) *ChatModelGenerator {
	return &ChatModelGenerator{chat: chat, model: modelName}
}

// Model 模型名称
func (g *ChatModelGenerator) Model() string { return g.model }

// Generate 单轮对话；JSON 要求已写在提示词中
func (g *ChatModelGenerator) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	out, err := g.chat.Generate(ctx, []*schema.Message{schema.UserMessage(req.Prompt)})
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errors.New("chat model returned empty content")
	}
	return out.Content, nil
}
