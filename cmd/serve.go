package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "skynet/handler/http"
	"skynet/src/core/knowledge"
	"skynet/src/core/knowledge/corpusfile"
	"skynet/src/log"
	"skynet/src/storage/minioctrl"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the knowledge engine HTTP server",
	Long: `The serve command starts an HTTP server exposing semantic search,
role-tailored summarization and paper exploration APIs over the embedded
publication corpus. The corpus loads in the background; /health reports
loading until it is ready.`,
	Run: RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer(cmd *cobra.Command, args []string) {
	provider, err := buildModelProvider()
	if err != nil {
		log.Error(err, "Failed to configure model provider")
		os.Exit(1)
	}

	artifactPath := viper.GetString("index.embeddings")
	provider.info.ArtifactPath = artifactPath

	// Pull index artifacts from object storage when configured
	if endpoint := viper.GetString("minio.endpoint"); endpoint != "" {
		ms, err := minioctrl.NewMinioService(
			endpoint,
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			viper.GetString("minio.bucket"),
			viper.GetBool("minio.use_ssl"),
		)
		if err != nil {
			log.Error(err, "Failed to create MinIO client")
			os.Exit(1)
		}
		if err := ms.Pull(context.Background(), artifactPath); err != nil {
			log.Error(err, "Failed to pull index artifacts")
			os.Exit(1)
		}
	}

	corpus := knowledge.NewHandle()

	// Load the corpus without blocking startup. Failures here mean the
	// deployment is broken, so they are fatal rather than retried.
	go func() {
		loaded, err := corpusfile.Load(artifactPath)
		if err != nil {
			log.Error(err, "Failed to load corpus", "path", artifactPath)
			os.Exit(1)
		}
		if dim := provider.embedder.Dimension(); dim != 0 && loaded.Dimension() != dim {
			log.Error(errors.New("embedding dimension mismatch"), "Corpus does not match the configured embedding model",
				"corpus", loaded.Dimension(), "model", dim)
			os.Exit(1)
		}
		corpus.Set(loaded)
		log.Info("Corpus loaded",
			"chunks", loaded.Size(),
			"documents", loaded.DocumentCount(),
			"dimension", loaded.Dimension(),
		)
	}()

	searchService := knowledge.NewSearchService(corpus, provider.embedder, knowledge.SearchOptions{
		Candidates:  viper.GetInt("search.candidates"),
		DefaultDocs: viper.GetInt("search.default_docs"),
		MaxDocs:     viper.GetInt("search.max_docs"),
	})
	summaryService := knowledge.NewSummaryService(corpus, provider.llm, knowledge.SummaryOptions{
		MaxChunksPerDoc: viper.GetInt("summary.max_chunks_per_doc"),
		DocTokens:       viper.GetInt("summary.doc_tokens"),
		FinalTokens:     viper.GetInt("summary.final_tokens"),
		ContextBudget:   viper.GetInt("summary.context_budget"),
	})
	documentService := knowledge.NewDocumentService(corpus, provider.embedder)
	systemService := knowledge.NewSystemService(corpus, provider.info)

	handler := httpHdlr.NewHandler(corpus, searchService, summaryService, documentService, systemService)

	// Setup gin router
	if !viper.GetBool("server.debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(httpHdlr.RequestID())
	r.Use(httpHdlr.CORS(strings.Split(viper.GetString("cors.origins"), ",")))
	r.Use(httpHdlr.Metrics())

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			os.Exit(1)
		}
	}()
	log.Info("Server listening", "port", viper.GetString("server.port"), "provider", provider.info.Provider)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
