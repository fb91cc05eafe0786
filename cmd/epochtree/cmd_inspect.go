package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Summarize an epoch archive",
		Long: `Load an archive and report its contents: epoch counts, selection
state, and the response and stimulus streams present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			selected := 0
			responseStreams := make(map[string]int)
			stimulusStreams := make(map[string]int)
			generators := make(map[string]int)
			for _, e := range s.epochs {
				if e.Selected {
					selected++
				}
				for _, r := range e.Responses {
					responseStreams[r.Name]++
				}
				for _, st := range e.Stimuli {
					stimulusStreams[st.Name]++
					if st.Generator != "" {
						generators[st.Generator]++
					}
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"archive_id":       s.archive.ID,
					"version":          s.archive.Version,
					"source":           s.archive.Source,
					"epochs":           len(s.epochs),
					"selected":         selected,
					"response_streams": responseStreams,
					"stimulus_streams": stimulusStreams,
					"generators":       generators,
					"warnings":         s.warnings,
				})
			}

			fmt.Printf("Archive: %s (format v%d)\n", s.archive.ID, s.archive.Version)
			if s.archive.Source != "" {
				fmt.Printf("Source: %s\n", s.archive.Source)
			}
			fmt.Printf("Epochs: %d (%d selected)\n", len(s.epochs), selected)

			if len(responseStreams) > 0 {
				fmt.Println("\nResponse streams:")
				for _, name := range sortedKeys(responseStreams) {
					fmt.Printf("  %s (%d epochs)\n", name, responseStreams[name])
				}
			}
			if len(stimulusStreams) > 0 {
				fmt.Println("\nStimulus streams:")
				for _, name := range sortedKeys(stimulusStreams) {
					fmt.Printf("  %s (%d epochs)\n", name, stimulusStreams[name])
				}
			}
			if len(generators) > 0 {
				fmt.Println("\nGenerators in use:")
				for _, name := range sortedKeys(generators) {
					fmt.Printf("  %s (%d stimuli)\n", name, generators[name])
				}
			}
			if len(s.warnings) > 0 {
				fmt.Printf("\nWarnings: %d\n", len(s.warnings))
			}

			return nil
		},
	}

	return cmd
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
