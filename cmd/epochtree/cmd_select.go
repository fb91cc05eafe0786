package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/epochtree/internal/selection"
)

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <archive>",
		Short: "Change or persist epoch selection state",
		Long: `Select or deselect epochs under a tree node and persist the result
as a reusable selection mask.

Operations run in order: --apply loads a saved mask first, then --node
changes flags under the matching subtree, then --save writes the
resulting mask. Mask files bind to an epoch set by count; applying a
mask built for a different set is refused.

Examples:
  epochtree select data.json --group-by cellType --node B --deselect --recursive --save mask.json
  epochtree select data.json --apply mask.json --save mask2.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupBy, _ := cmd.Flags().GetString("group-by")
			nodePath, _ := cmd.Flags().GetString("node")
			deselect, _ := cmd.Flags().GetBool("deselect")
			recursive, _ := cmd.Flags().GetBool("recursive")
			applyPath, _ := cmd.Flags().GetString("apply")
			savePath, _ := cmd.Flags().GetString("save")
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := newSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if applyPath != "" {
				if err := s.applyMask(applyPath); err != nil {
					return err
				}
			}

			root, err := s.buildTree(groupBy)
			if err != nil {
				return err
			}

			target := nodePathOrRoot(root)
			if nodePath != "" {
				node, err := resolveNode(root, nodePath)
				if err != nil {
					return err
				}
				selection.SetSelected(node, !deselect, recursive)
				target = nodePathOrRoot(node)
			}

			if savePath != "" {
				mask := selection.BuildMask(s.epochs, s.archive.ID)
				if err := selection.SaveMask(mask, savePath); err != nil {
					return fmt.Errorf("failed to save selection mask: %w", err)
				}
			}

			selected := selection.Count(root)
			total := root.EpochCount()

			if jsonOut {
				result := map[string]interface{}{
					"node":     target,
					"selected": selected,
					"total":    total,
				}
				if savePath != "" {
					result["mask"] = savePath
				}
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			if nodePath != "" {
				verb := "Selected"
				if deselect {
					verb = "Deselected"
				}
				scope := "direct epochs"
				if recursive {
					scope = "subtree"
				}
				fmt.Printf("%s %s of %s\n", verb, scope, target)
			}
			fmt.Printf("Selection: %d/%d epochs\n", selected, total)
			if savePath != "" {
				fmt.Printf("Mask saved to %s\n", savePath)
			}

			return nil
		},
	}

	cmd.Flags().String("group-by", "", "Comma-separated grouping rules, applied in order")
	cmd.Flags().String("node", "", "Path of split values addressing the target node (e.g. \"B/P2\")")
	cmd.Flags().Bool("deselect", false, "Deselect instead of select")
	cmd.Flags().Bool("recursive", false, "Apply to the whole subtree, not just direct epochs")
	cmd.Flags().String("apply", "", "Selection mask to apply before other operations")
	cmd.Flags().String("save", "", "Write the resulting selection mask to this path")

	return cmd
}
