package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skynet/src/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skynet",
	Short: "Knowledge engine over a space biology publication corpus",
	Long: `Skynet answers questions over a precomputed corpus of PMC space biology
publications: semantic search over chunk embeddings, role-weighted document
ranking and LLM summaries tailored to researchers, funding managers and
students. Build the corpus with build-chunks and build-index, then explore
it with serve, search, ask or console.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig loads .env when present, binds configuration and sets up the
// logger before any command runs.
func initConfig() {
	_ = godotenv.Load()

	settingDefaultConfig()

	if err := log.Init(viper.GetBool("server.debug")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}
