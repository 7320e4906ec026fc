package cmd

import (
	"fmt"
	"strconv"

	"github.com/Noofbiz/pianoRoll/dataset"
	"github.com/spf13/cobra"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var inspectOut string

func init() {
	inspectCmd.Flags().StringVarP(&inspectOut, "out", "o", "sample.png", "output PNG path for the feature heat map")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset-dir> <index>",
	Short: "Windows one sample and renders its feature matrix",
	Long: `Windows one sample exactly as the training loop would and renders the
feature matrix as a heat map, plus per-channel label activity counts.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("index must be an integer: %w", err)
		}
		return inspect(args[0], idx)
	},
}

func inspect(dir string, idx int) error {
	// One sample only, so skip the eager corpus load.
	ds, err := dataset.New(dir, dataset.WithoutCache())
	if err != nil {
		return err
	}
	s, err := ds.Sample(idx)
	if err != nil {
		return err
	}

	entry := ds.Catalogue()[idx]
	fmt.Printf("sample %d: recording %s, feature [%d, %d), label [%d, %d)\n",
		idx, entry.Basename,
		entry.Feature.OnsetFrame, entry.Feature.OffsetFrame,
		entry.Label.OnsetFrame, entry.Label.OffsetFrame)
	fmt.Printf("feature: %d bins x %d frames\n", s.Feature.Rows, s.Feature.Cols)
	fmt.Printf("onset:   %d active cells\n", activeCells(s.Onset))
	fmt.Printf("offset:  %d active cells\n", activeCells(s.Offset))
	fmt.Printf("mpe:     %d active cells\n", activeCells(s.MPE))

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s [%d:%d)", entry.Basename, entry.Feature.OnsetFrame, entry.Feature.OffsetFrame)
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "bin"
	p.Add(plotter.NewHeatMap(featureGrid{s.Feature}, palette.Heat(255, 1)))

	if err := p.Save(8*vg.Inch, 4*vg.Inch, inspectOut); err != nil {
		return fmt.Errorf("saving heat map: %w", err)
	}
	fmt.Printf("wrote %s\n", inspectOut)
	return nil
}

func activeCells(m *dataset.Matrix) int {
	n := 0
	for _, v := range m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// featureGrid adapts a [bins x frames] feature matrix to plotter.GridXYZ:
// x walks frames, y walks bins.
type featureGrid struct {
	m *dataset.Matrix
}

func (g featureGrid) Dims() (c, r int)   { return g.m.Cols, g.m.Rows }
func (g featureGrid) Z(c, r int) float64 { return float64(g.m.At(r, c)) }
func (g featureGrid) X(c int) float64    { return float64(c) }
func (g featureGrid) Y(r int) float64    { return float64(r) }
