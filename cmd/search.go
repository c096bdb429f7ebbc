package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skynet/src/core/knowledge"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus from the command line",
	Long: `The search command embeds the query and prints the strongest matches,
either as raw chunks or as role-weighted documents.`,
	Args: cobra.MinimumNArgs(1),
	Run:  RunSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("mode", "m", "docs", "Result mode: chunks or docs")
	searchCmd.Flags().StringP("role", "r", "Researcher", "Role the document ranking is weighted for")
	searchCmd.Flags().IntP("top", "k", 5, "Number of results")
}

func RunSearch(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	mode, _ := cmd.Flags().GetString("mode")
	roleName, _ := cmd.Flags().GetString("role")
	topK, _ := cmd.Flags().GetInt("top")

	provider, err := buildModelProvider()
	if err != nil {
		fmt.Printf("Failed to configure model provider: %v\n", err)
		os.Exit(1)
	}

	handle, err := loadCorpus()
	if err != nil {
		fmt.Printf("Failed to load corpus: %v\n", err)
		os.Exit(1)
	}
	corpus, _ := handle.Get()

	searchService := knowledge.NewSearchService(handle, provider.embedder, knowledge.SearchOptions{})
	ctx := context.Background()
	role := knowledge.NormalizeRole(roleName)

	switch mode {
	case "chunks":
		hits, err := searchService.SearchChunks(ctx, query, topK)
		if err != nil {
			fmt.Printf("Search failed: %v\n", err)
			os.Exit(1)
		}
		printChunkResults(corpus, query, hits)
	case "docs":
		docs, err := searchService.SearchDocuments(ctx, query, role, topK)
		if err != nil {
			fmt.Printf("Search failed: %v\n", err)
			os.Exit(1)
		}
		printDocResults(corpus, query, role, docs)
	default:
		fmt.Printf("Unknown mode %q, use chunks or docs\n", mode)
		os.Exit(1)
	}
}

func printChunkResults(corpus *knowledge.Corpus, query string, hits []knowledge.ChunkHit) {
	fmt.Printf("\nSearch results for: '%s'\n", query)
	fmt.Println(strings.Repeat("=", 50))

	for i, hit := range hits {
		chunk := corpus.ChunkAt(hit.Index)
		fmt.Printf("\n%d. Score: %.4f\n", i+1, hit.Score)
		fmt.Printf("   PMC ID: %s\n", chunk.PMCID)
		fmt.Printf("   Section: %s\n", chunk.Section)
		fmt.Printf("   Title: %s\n", chunk.Title)
		fmt.Printf("   Text: %s\n", knowledge.Preview(chunk.ChunkText, 200))
		fmt.Printf("   URL: %s\n", chunk.URL)
	}
}

func printDocResults(corpus *knowledge.Corpus, query string, role knowledge.Role, docs []knowledge.DocumentResult) {
	fmt.Printf("\nDocument results for: '%s' (Role: %s)\n", query, role)
	fmt.Println(strings.Repeat("=", 60))

	weights := role.Weights()
	for i, doc := range docs {
		fmt.Printf("\n%d. Document Score: %.4f\n", i+1, doc.Score)
		fmt.Printf("   PMC ID: %s\n", doc.PMCID)
		fmt.Printf("   Title: %s\n", doc.Title)
		fmt.Printf("   URL: %s\n", doc.URL)
		fmt.Printf("   Matching chunks: %d\n", len(doc.Chunks))

		fmt.Println("   Top chunks:")
		for j, hit := range doc.Chunks {
			if j == 3 {
				break
			}
			chunk := corpus.ChunkAt(hit.Index)
			w := weights[chunk.Section]
			fmt.Printf("     %d. [%s] Score: %.3f (w: %.2f -> %.3f)\n", j+1, chunk.Section, hit.Score, w, w*hit.Score)
			fmt.Printf("        %s\n", knowledge.Preview(chunk.ChunkText, 100))
		}
	}
}
