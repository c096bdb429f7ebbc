package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"skynet/src/core/knowledge"
	"skynet/src/core/knowledge/corpusfile"
	"skynet/src/infrastructure/integrations/ollama"
	"skynet/src/infrastructure/integrations/openai"
	"skynet/src/storage/minioctrl"
)

// modelProvider bundles the embedding and completion views of one
// configured backend, plus the facts the debug endpoint reports about it.
type modelProvider struct {
	embedder knowledge.Embedder
	llm      knowledge.LLMProvider
	info     knowledge.SystemInfo
}

// buildModelProvider wires the provider named by configuration. A missing
// OpenAI key is a configuration error, not a runtime one.
func buildModelProvider() (*modelProvider, error) {
	name := viper.GetString("provider")
	switch name {
	case "openai", "":
		client, err := openai.NewClient(openai.Config{
			APIKey:     viper.GetString("openai.api_key"),
			BaseURL:    viper.GetString("openai.base_url"),
			EmbedModel: viper.GetString("openai.embed_model"),
			ChatModel:  viper.GetString("openai.chat_model"),
		})
		if err != nil {
			return nil, err
		}
		return &modelProvider{
			embedder: client,
			llm:      client,
			info: knowledge.SystemInfo{
				Provider:   "openai",
				EmbedModel: client.EmbedModel(),
				ChatModel:  client.ChatModel(),
				APIKeySet:  viper.GetString("openai.api_key") != "",
			},
		}, nil
	case "ollama":
		client := ollama.NewClient(ollama.Config{
			URL:        viper.GetString("ollama.url"),
			EmbedModel: viper.GetString("ollama.embed_model"),
			ChatModel:  viper.GetString("ollama.chat_model"),
		}, &http.Client{Timeout: 120 * time.Second})
		return &modelProvider{
			embedder: client,
			llm:      client,
			info: knowledge.SystemInfo{
				Provider:   "ollama",
				EmbedModel: client.EmbedModel(),
				ChatModel:  client.ChatModel(),
				APIKeySet:  true,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// loadCorpus pulls the index artifacts when object storage is configured
// and loads them synchronously. CLI commands need the corpus before they
// can do anything, unlike serve which loads in the background.
func loadCorpus() (*knowledge.Handle, error) {
	artifactPath := viper.GetString("index.embeddings")

	if endpoint := viper.GetString("minio.endpoint"); endpoint != "" {
		ms, err := minioctrl.NewMinioService(
			endpoint,
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			viper.GetString("minio.bucket"),
			viper.GetBool("minio.use_ssl"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create MinIO client: %w", err)
		}
		if err := ms.Pull(context.Background(), artifactPath); err != nil {
			return nil, fmt.Errorf("failed to pull index artifacts: %w", err)
		}
	}

	loaded, err := corpusfile.Load(artifactPath)
	if err != nil {
		return nil, err
	}

	handle := knowledge.NewHandle()
	handle.Set(loaded)
	return handle, nil
}
