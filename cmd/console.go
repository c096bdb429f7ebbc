package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"skynet/src/core/knowledge"
	"skynet/src/tui"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Explore the corpus in an interactive terminal UI",
	Long: `The console command opens a terminal UI over the corpus: type a query,
walk the ranked documents with the arrow keys, switch the ranking role
with ctrl+r and request an AI summary with ctrl+s.`,
	Run: RunConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func RunConsole(cmd *cobra.Command, args []string) {
	provider, err := buildModelProvider()
	if err != nil {
		fmt.Printf("Failed to configure model provider: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Loading corpus...")
	handle, err := loadCorpus()
	if err != nil {
		fmt.Printf("Failed to load corpus: %v\n", err)
		os.Exit(1)
	}

	searchService := knowledge.NewSearchService(handle, provider.embedder, knowledge.SearchOptions{})
	summaryService := knowledge.NewSummaryService(handle, provider.llm, knowledge.SummaryOptions{})

	m := tui.New(handle, searchService, summaryService)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Printf("Console exited with error: %v\n", err)
		os.Exit(1)
	}
}
