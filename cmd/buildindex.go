package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skynet/src/core/knowledge/corpusfile"
	"skynet/src/storage/minioctrl"
)

// buildIndexCmd represents the build-index command
var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Embed chunks and write the search index artifacts",
	Long: `The build-index command embeds every chunk with the configured provider
and writes the embedding matrix with its chunk sidecar. An existing index
is never overwritten; delete it to regenerate.`,
	Run: RunBuildIndex,
}

func init() {
	rootCmd.AddCommand(buildIndexCmd)
	buildIndexCmd.Flags().StringP("chunks", "c", "data/chunks.jsonl", "Input chunks JSONL path")
	buildIndexCmd.Flags().StringP("out", "o", "", "Embeddings output path (defaults to index.embeddings)")
	buildIndexCmd.Flags().IntP("batch", "b", 32, "Embedding batch size")
	buildIndexCmd.Flags().Int("max-chunks", 0, "Embed at most this many chunks (0 = all)")
	buildIndexCmd.Flags().Bool("upload", false, "Push the artifacts to object storage afterwards")
}

func RunBuildIndex(cmd *cobra.Command, args []string) {
	chunksPath, _ := cmd.Flags().GetString("chunks")
	outPath, _ := cmd.Flags().GetString("out")
	batchSize, _ := cmd.Flags().GetInt("batch")
	maxChunks, _ := cmd.Flags().GetInt("max-chunks")
	upload, _ := cmd.Flags().GetBool("upload")

	if outPath == "" {
		outPath = viper.GetString("index.embeddings")
	}
	if batchSize <= 0 {
		batchSize = 32
	}

	if _, err := os.Stat(outPath); err == nil {
		fmt.Printf("Embeddings already exist at %s\n", outPath)
		fmt.Println("Delete the file to regenerate the index.")
		os.Exit(1)
	}

	provider, err := buildModelProvider()
	if err != nil {
		fmt.Printf("Failed to configure model provider: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(chunksPath)
	if err != nil {
		fmt.Printf("Failed to open chunks file: %v\n", err)
		os.Exit(1)
	}
	chunks, err := corpusfile.ReadChunks(f)
	f.Close()
	if err != nil {
		fmt.Printf("Failed to read chunks: %v\n", err)
		os.Exit(1)
	}
	if maxChunks > 0 && len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	if len(chunks) == 0 {
		fmt.Printf("No chunks found in %s\n", chunksPath)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d chunks from %s\n", len(chunks), chunksPath)
	fmt.Printf("Generating embeddings with %s/%s...\n", provider.info.Provider, provider.info.EmbedModel)

	ctx := context.Background()
	vectors := make([][]float32, 0, len(chunks))
	bar := progressbar.Default(int64(len(chunks)), "embedding")
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.ChunkText)
		}

		batch, err := provider.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			fmt.Printf("\nEmbedding failed at batch %d: %v\n", start/batchSize+1, err)
			os.Exit(1)
		}
		vectors = append(vectors, batch...)
		bar.Add(end - start)

		// Pause between batches to avoid rate limit bursts
		time.Sleep(100 * time.Millisecond)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Printf("Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := corpusfile.Save(outPath, chunks, vectors); err != nil {
		fmt.Printf("Failed to write index: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Successfully created embeddings index:")
	fmt.Printf("  Embeddings: %s\n", outPath)
	fmt.Printf("  Chunks metadata: %s\n", corpusfile.ChunksPath(outPath))
	fmt.Printf("  Shape: (%d, %d)\n", len(vectors), len(vectors[0]))

	if upload {
		endpoint := viper.GetString("minio.endpoint")
		if endpoint == "" {
			fmt.Println("minio.endpoint is not configured, skipping upload")
			return
		}
		ms, err := minioctrl.NewMinioService(
			endpoint,
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			viper.GetString("minio.bucket"),
			viper.GetBool("minio.use_ssl"),
		)
		if err != nil {
			fmt.Printf("Failed to create MinIO client: %v\n", err)
			os.Exit(1)
		}
		if err := ms.Push(ctx, outPath); err != nil {
			fmt.Printf("Failed to push artifacts: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Artifacts pushed to object storage")
	}
}
