// Package openai adapts the OpenAI embeddings and chat completion APIs
// to the knowledge provider interfaces.
package openai

import (
	"context"
	"fmt"

	sdk "github.com/sashabaranov/go-openai"

	"skynet/src/core/knowledge"
)

const providerName = "openai"

const (
	DefaultEmbedModel = "text-embedding-3-small"
	DefaultChatModel  = "gpt-4o-mini"
)

// Known vector widths per embedding model, used for the startup dimension
// check against the corpus.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds the connection settings. BaseURL is overridable so tests
// and proxies can stand in for the real API.
type Config struct {
	APIKey     string
	BaseURL    string
	EmbedModel string
	ChatModel  string
}

// Client implements the knowledge Embedder and LLMProvider interfaces on
// top of the OpenAI API.
type Client struct {
	api        *sdk.Client
	embedModel string
	chatModel  string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key not set")
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}

	clientCfg := sdk.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:        sdk.NewClientWithConfig(clientCfg),
		embedModel: cfg.EmbedModel,
		chatModel:  cfg.ChatModel,
	}, nil
}

// EmbedModel returns the embedding model identifier in use.
func (c *Client) EmbedModel() string {
	return c.embedModel
}

// ChatModel returns the chat model identifier in use.
func (c *Client) ChatModel() string {
	return c.chatModel
}

// Dimension returns the vector width of the configured embedding model,
// or 0 for models not in the table.
func (c *Client) Dimension() int {
	return modelDimensions[c.embedModel]
}

// Embed generates the embedding vector for one input text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates one vector per input, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.api.CreateEmbeddings(ctx, sdk.EmbeddingRequest{
		Input: texts,
		Model: sdk.EmbeddingModel(c.embedModel),
	})
	if err != nil {
		return nil, &knowledge.RemoteError{Provider: providerName, Op: "embeddings", Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &knowledge.RemoteError{
			Provider: providerName,
			Op:       "embeddings",
			Err:      fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts)),
		}
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, &knowledge.RemoteError{
				Provider: providerName,
				Op:       "embeddings",
				Err:      fmt.Errorf("embedding index %d out of range", d.Index),
			}
		}
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}

// Complete runs one chat completion. History turns are attached between
// the system message and the prompt, oldest first.
func (c *Client) Complete(ctx context.Context, req knowledge.CompletionRequest) (string, error) {
	messages := make([]sdk.ChatCompletionMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, sdk.ChatCompletionMessage{
			Role:    sdk.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, turn := range req.History {
		role := turn.Role
		if role != sdk.ChatMessageRoleAssistant {
			role = sdk.ChatMessageRoleUser
		}
		messages = append(messages, sdk.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, sdk.ChatCompletionMessage{
		Role:    sdk.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	// A zero temperature would be dropped by the request encoder; an
	// epsilon keeps completions pinned near-deterministic.
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = 1e-8
	}

	resp, err := c.api.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &knowledge.RemoteError{Provider: providerName, Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &knowledge.RemoteError{
			Provider: providerName,
			Op:       "chat completion",
			Err:      fmt.Errorf("no choices returned"),
		}
	}
	return resp.Choices[0].Message.Content, nil
}
