package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatModel struct {
	reply *schema.Message
	err   error
	seen  []*schema.Message
}

func (s *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	s.seen = input
	return s.reply, s.err
}

func (s *stubChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not used")
}

func TestChatModelGenerator(t *testing.T) {
	stub := &stubChatModel{reply: schema.AssistantMessage(`{"summary":"fine"}`, nil)}
	gen := NewChatModelGeneratorFrom(stub, "gemini-2.5-flash")

	text, err := gen.Generate(context.Background(), CompletionRequest{Prompt: "hello", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"fine"}`, text)
	require.Len(t, stub.seen, 1)
	assert.Equal(t, schema.User, stub.seen[0].Role)
	assert.Equal(t, "hello", stub.seen[0].Content)
	assert.Equal(t, "gemini-2.5-flash", gen.Model())
}

func TestChatModelGeneratorErrors(t *testing.T) {
	gen := NewChatModelGeneratorFrom(&stubChatModel{err: errors.New("401")}, "m")
	_, err := gen.Generate(context.Background(), CompletionRequest{Prompt: "x"})
	assert.ErrorContains(t, err, "401")

	empty := NewChatModelGeneratorFrom(&stubChatModel{reply: schema.AssistantMessage("  ", nil)}, "m")
	_, err = empty.Generate(context.Background(), CompletionRequest{Prompt: "x"})
	assert.Error(t, err)
}

func TestChatModelGeneratorDoesNotListModels(t *testing.T) {
	var gen Generator = NewChatModelGeneratorFrom(&stubChatModel{}, "m")
	_, ok := gen.(ModelLister)
	assert.False(t, ok)
}
