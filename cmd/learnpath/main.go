package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "learnpath",
	Short: "Course recommendation and learning path backend",
	Long: `learnpath recommends catalog courses and generates personalized
learning paths by combining keyword catalog search, live job-market skill
mining, and LLM synthesis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the learnpath version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("learnpath version " + version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(serveCmd, importCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
