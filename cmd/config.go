package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for the model provider
	viper.BindEnv("provider", "PROVIDER")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("openai.embed_model", "OPENAI_EMBED_MODEL")
	viper.BindEnv("openai.chat_model", "OPENAI_CHAT_MODEL")
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.embed_model", "OLLAMA_EMBED_MODEL")
	viper.BindEnv("ollama.chat_model", "OLLAMA_CHAT_MODEL")

	// Map environment variables to Viper keys for the server
	// PORT is the Render/Railway convention, SERVER_PORT wins when both are set
	viper.BindEnv("server.port", "SERVER_PORT", "PORT")
	viper.BindEnv("server.debug", "DEBUG")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")
	viper.BindEnv("cors.origins", "CORS_ORIGINS")

	// Map environment variables to Viper keys for the index artifacts
	viper.BindEnv("index.embeddings", "EMBEDDINGS_PATH")

	// Map environment variables to Viper keys for MinIO artifact sync
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.bucket", "MINIO_BUCKET")
	viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")

	// Set default values for the model provider
	viper.SetDefault("provider", "openai")
	viper.SetDefault("openai.embed_model", "text-embedding-3-small")
	viper.SetDefault("openai.chat_model", "gpt-4o-mini")
	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("ollama.embed_model", "nomic-embed-text")
	viper.SetDefault("ollama.chat_model", "llama3.1")

	// Set default values for the server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.debug", false)
	viper.SetDefault("server.shutdown_timeout", "5s")
	viper.SetDefault("cors.origins", "*")

	// Set default values for the index artifacts and MinIO
	viper.SetDefault("index.embeddings", "models/embeddings.npy")
	viper.SetDefault("minio.endpoint", "")
	viper.SetDefault("minio.bucket", "skynet-artifacts")
	viper.SetDefault("minio.use_ssl", false)

	// Set default values for search and summarization
	viper.SetDefault("search.candidates", 50)
	viper.SetDefault("search.default_docs", 5)
	viper.SetDefault("search.max_docs", 20)
	viper.SetDefault("summary.max_chunks_per_doc", 3)
	viper.SetDefault("summary.doc_tokens", 300)
	viper.SetDefault("summary.final_tokens", 500)
	viper.SetDefault("summary.context_budget", 2400)
}
