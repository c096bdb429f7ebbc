package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"skynet/src/core/ingest"
	"skynet/src/core/knowledge"
	"skynet/src/core/knowledge/corpusfile"
)

// buildChunksCmd represents the build-chunks command
var buildChunksCmd = &cobra.Command{
	Use:   "build-chunks",
	Short: "Fetch and chunk the publications listed in a CSV",
	Long: `The build-chunks command downloads every publication page listed in the
source CSV, parses it into canonical sections and writes token-bounded
chunks to a JSONL file, ready for embedding with build-index. Pages are
cached on disk, so reruns only fetch what is missing.`,
	Run: RunBuildChunks,
}

func init() {
	rootCmd.AddCommand(buildChunksCmd)
	buildChunksCmd.Flags().StringP("csv", "c", "data/publications.csv", "Publication list CSV")
	buildChunksCmd.Flags().StringP("out", "o", "data/chunks.jsonl", "Output chunks JSONL path")
	buildChunksCmd.Flags().String("cache", ingest.DefaultCacheDir, "Directory for cached article pages")
}

func RunBuildChunks(cmd *cobra.Command, args []string) {
	csvPath, _ := cmd.Flags().GetString("csv")
	outPath, _ := cmd.Flags().GetString("out")
	cacheDir, _ := cmd.Flags().GetString("cache")

	pubs, err := ingest.LoadPublications(csvPath)
	if err != nil {
		fmt.Printf("Failed to load publications: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d publications from %s\n", len(pubs), csvPath)

	builder := ingest.NewChunkBuilder(ingest.NewFetcher(cacheDir, nil))
	ctx := context.Background()

	var chunks []knowledge.Chunk
	failed := 0
	for i, pub := range pubs {
		fmt.Printf("Processing %d/%d: %s\n", i+1, len(pubs), pub.PMCID)
		docChunks, err := builder.Build(ctx, pub)
		if err != nil {
			fmt.Printf("  Failed: %v\n", err)
			failed++
			continue
		}
		chunks = append(chunks, docChunks...)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Printf("Failed to create output directory: %v\n", err)
		os.Exit(1)
	}
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Printf("Failed to create %s: %v\n", outPath, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := corpusfile.WriteChunks(f, chunks); err != nil {
		fmt.Printf("Failed to write chunks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nWrote %d chunks to %s (%d documents failed)\n", len(chunks), outPath, failed)

	counts := make(map[string]int)
	for _, chunk := range chunks {
		counts[chunk.Section]++
	}
	sections := make([]string, 0, len(counts))
	for section := range counts {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	fmt.Println("Chunks per section:")
	for _, section := range sections {
		fmt.Printf("  %s: %d\n", section, counts[section])
	}
}
