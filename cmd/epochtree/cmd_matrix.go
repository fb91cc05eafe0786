package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/nvandessel/epochtree/internal/export"
	"github.com/nvandessel/epochtree/internal/matrix"
	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/selection"
)

func newMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix <archive>",
		Short: "Extract an epoch-aligned trace matrix",
		Long: `Build the response (or stimulus) matrix for one stream across a set
of epochs: one row per epoch, lazily fetching non-resident traces from
the backing store.

The epoch set defaults to the whole archive; narrow it with --group-by
plus --node, and with --selected-only. Traces that disagree on length
or sample rate fail the extraction outright.

Examples:
  epochtree matrix data.json --stream Amp1 --selected-only
  epochtree matrix data.json --stream LED --stimulus --out led.arrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, _ := cmd.Flags().GetString("stream")
			stimulus, _ := cmd.Flags().GetBool("stimulus")
			groupBy, _ := cmd.Flags().GetString("group-by")
			nodePath, _ := cmd.Flags().GetString("node")
			selectedOnly, _ := cmd.Flags().GetBool("selected-only")
			maskPath, _ := cmd.Flags().GetString("mask")
			outPath, _ := cmd.Flags().GetString("out")
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := newSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if maskPath != "" {
				if err := s.applyMask(maskPath); err != nil {
					return err
				}
			}

			epochs := s.epochs
			if nodePath != "" || groupBy != "" {
				root, err := s.buildTree(groupBy)
				if err != nil {
					return err
				}
				node := root
				if nodePath != "" {
					node, err = resolveNode(root, nodePath)
					if err != nil {
						return err
					}
				}
				epochs = selection.Epochs(node, selectedOnly)
			} else if selectedOnly {
				epochs = selectedEpochs(epochs)
			}

			ctx := context.Background()
			var res *matrix.Result
			if stimulus {
				res, err = matrix.Stimuli(ctx, epochs, stream)
			} else {
				res, err = matrix.Responses(ctx, epochs, stream, s.loader)
			}
			if err != nil {
				return err
			}
			if res == nil {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"stream": stream,
						"rows":   0,
					})
				}
				fmt.Printf("No epoch carries stream %q.\n", stream)
				return nil
			}

			if outPath != "" {
				if err := export.WriteMatrix(outPath, stream, res); err != nil {
					return err
				}
			}

			rows, cols := res.Data.Dims()
			data := res.Data.RawMatrix().Data
			summary := map[string]interface{}{
				"stream":      stream,
				"rows":        rows,
				"cols":        cols,
				"sample_rate": res.Rate,
				"epochs":      res.Seqs,
				"mean":        stat.Mean(data, nil),
				"std":         stat.StdDev(data, nil),
				"min":         floats.Min(data),
				"max":         floats.Max(data),
			}

			if jsonOut {
				if outPath != "" {
					summary["out"] = outPath
				}
				return json.NewEncoder(os.Stdout).Encode(summary)
			}

			kind := "Response"
			if stimulus {
				kind = "Stimulus"
			}
			fmt.Printf("%s matrix for %q: %d x %d @ %v Hz\n", kind, stream, rows, cols, res.Rate)
			fmt.Printf("  mean %.6g, std %.6g, range [%.6g, %.6g]\n",
				summary["mean"], summary["std"], summary["min"], summary["max"])
			if outPath != "" {
				fmt.Printf("  written to %s\n", outPath)
			}

			return nil
		},
	}

	cmd.Flags().String("stream", "", "Stream name to extract (required)")
	cmd.Flags().Bool("stimulus", false, "Extract the stimulus matrix instead of responses")
	cmd.Flags().String("group-by", "", "Comma-separated grouping rules, applied in order")
	cmd.Flags().String("node", "", "Path of split values narrowing the epoch set")
	cmd.Flags().Bool("selected-only", false, "Include only selected epochs")
	cmd.Flags().String("mask", "", "Selection mask to apply first")
	cmd.Flags().String("out", "", "Write the matrix to this Arrow IPC file")
	cmd.MarkFlagRequired("stream")

	return cmd
}

func selectedEpochs(epochs []*models.Epoch) []*models.Epoch {
	out := make([]*models.Epoch, 0, len(epochs))
	for _, e := range epochs {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}
