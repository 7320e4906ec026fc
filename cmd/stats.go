package cmd

import (
	"fmt"

	"github.com/Noofbiz/pianoRoll/dataset"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <dataset-dir>",
	Short: "Summarizes a dataset catalogue",
	Long:  `Summarizes a dataset catalogue: entries, recordings, span lengths, config constants.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return stats(args[0])
	},
}

func stats(dir string) error {
	entries, err := dataset.LoadCatalogue(dir)
	if err != nil {
		return err
	}
	cfg, err := dataset.LoadConfig(dir)
	if err != nil {
		return err
	}
	meta, err := dataset.LoadMetadata(dir)
	if err != nil {
		return err
	}

	recordings := map[string]bool{}
	negativeOnsets := 0
	minLen, maxLen := 0, 0
	for i, e := range entries {
		recordings[e.Basename] = true
		if e.Feature.OnsetFrame < 0 {
			negativeOnsets++
		}
		l := e.Feature.Len()
		if i == 0 || l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	fmt.Printf("entries:             %d\n", len(entries))
	fmt.Printf("distinct recordings: %d\n", len(recordings))
	fmt.Printf("negative onsets:     %d\n", negativeOnsets)
	fmt.Printf("feature span length: min %d, max %d frames\n", minLen, maxLen)
	if cfg.Feature.SampleRate > 0 && cfg.Feature.HopLength > 0 {
		frameSec := float64(cfg.Feature.HopLength) / float64(cfg.Feature.SampleRate)
		fmt.Printf("frame duration:      %.6f s (%d/%d)\n", frameSec, cfg.Feature.HopLength, cfg.Feature.SampleRate)
	}
	fmt.Printf("log offset:          %v\n", *cfg.Feature.LogOffset)

	if len(meta) > 0 {
		splits := map[string]int{}
		for basename := range recordings {
			if m, ok := meta[basename]; ok {
				splits[m.Split]++
			}
		}
		fmt.Printf("metadata:            %d recordings", len(meta))
		for split, n := range splits {
			fmt.Printf(", %s=%d", split, n)
		}
		fmt.Println()
	}
	return nil
}
