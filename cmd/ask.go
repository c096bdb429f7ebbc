package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skynet/src/core/knowledge"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a question and get a role-tailored summary",
	Long: `The ask command runs the full pipeline: role-weighted document search
followed by the two-stage summarization, and prints the consolidated
answer with its sources.`,
	Args: cobra.MinimumNArgs(1),
	Run:  RunAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringP("role", "r", "Researcher", "Role the answer is tailored to")
	askCmd.Flags().IntP("top", "k", 5, "Number of documents to summarize")
}

func RunAsk(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	roleName, _ := cmd.Flags().GetString("role")
	topDocs, _ := cmd.Flags().GetInt("top")

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

	searchService := knowledge.NewSearchService(handle, provider.embedder, knowledge.SearchOptions{})
	summaryService := knowledge.NewSummaryService(handle, provider.llm, knowledge.SummaryOptions{})

	ctx := context.Background()
	role := knowledge.NormalizeRole(roleName)

	docs, err := searchService.SearchDocuments(ctx, query, role, topDocs)
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		fmt.Println(knowledge.NoResultsSummary(query))
		return
	}

	summary, err := summaryService.Summarize(ctx, role, query, docs, nil)
	if err != nil {
		fmt.Printf("Summarization failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAnswer for: '%s' (Role: %s)\n", query, role)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n%s\n", summary.Text)

	fmt.Println("\nPer-paper summaries:")
	for i, doc := range summary.Documents {
		fmt.Printf("\n%d. %s (Score: %.4f)\n", i+1, doc.Title, doc.Score)
		fmt.Printf("%s\n", doc.Text)
	}

	fmt.Println("\nSources:")
	for i, doc := range summary.Documents {
		fmt.Printf("%d. %s\n   %s\n", i+1, doc.Title, doc.URL)
	}
}
