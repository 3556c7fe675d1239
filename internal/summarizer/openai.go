package summarizer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const openAITimeout = 30 * time.Second

// OpenAI asks a chat completion model for the summary.
type OpenAI struct {
	client *openai.Client
	model  string
	tmpl   Template
}

func NewOpenAI(client *openai.Client, model string, tmpl Template) *OpenAI {
	return &OpenAI{client: client, model: model, tmpl: tmpl}
}

func (o *OpenAI) Summarize(ctx context.Context, query string) (string, error) {
	temp := o.tmpl.Style.Temperature
	if temp <= 0 {
		temp = 0.3
	}
	maxTok := o.tmpl.Style.MaxTokens
	if maxTok <= 0 {
		maxTok = 400
	}

	ctx, cancel := context.WithTimeout(ctx, openAITimeout)
	defer cancel()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: temp,
		MaxTokens:   maxTok,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.tmpl.System},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Query (%s): %s", ClassifyQuery(query), query)},
		},
	})
	if err != nil {
		log.Printf("[summarizer] openai completion failed: %v", err)
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("openai completion: empty reply")
	}
	return out, nil
}
