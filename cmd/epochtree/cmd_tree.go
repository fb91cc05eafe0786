package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/epochtree/internal/visualization"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <archive>",
		Short: "Build and render an epoch hierarchy",
		Long: `Group the archive's epochs by an ordered list of metadata rules and
render the resulting hierarchy.

Rules are metadata field names, dotted paths included. Epochs missing a
field group under a sentinel node rather than erroring.

Example:
  epochtree tree data.json --group-by cellType,protocolID
  epochtree tree data.json --group-by cellType --format dot | dot -Tsvg > tree.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupBy, _ := cmd.Flags().GetString("group-by")
			format, _ := cmd.Flags().GetString("format")
			maskPath, _ := cmd.Flags().GetString("mask")
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

			root, err := s.buildTree(groupBy)
			if err != nil {
				return err
			}

			if jsonOut {
				format = string(visualization.FormatJSON)
			}

			switch visualization.Format(format) {
			case visualization.FormatText:
				fmt.Print(visualization.RenderText(root))
			case visualization.FormatDOT:
				fmt.Print(visualization.RenderDOT(root))
			case visualization.FormatJSON:
				return json.NewEncoder(os.Stdout).Encode(visualization.RenderJSON(root))
			default:
				return fmt.Errorf("unknown format: %s (valid: text, dot, json)", format)
			}

			return nil
		},
	}

	cmd.Flags().String("group-by", "", "Comma-separated grouping rules, applied in order")
	cmd.Flags().String("format", "text", "Output format (text, dot, json)")
	cmd.Flags().String("mask", "", "Selection mask to apply before rendering")

	return cmd
}
