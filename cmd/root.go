package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pianoroll",
	Short: "Inspect and sanity-check piano transcription training datasets",
	Long: `pianoroll works with the on-disk layout produced by the feature/label
extraction pipeline: mapping.json, config.json, features/ and labels/.
It windows samples exactly the way the training loop sees them.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
