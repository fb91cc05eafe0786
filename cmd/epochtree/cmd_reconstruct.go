package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/epochtree/internal/reconstruct"
	"github.com/nvandessel/epochtree/internal/stimgen"
)

func newReconstructCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconstruct <archive>",
		Short: "Reconstruct a stimulus waveform",
		Long: `Regenerate the stimulus waveform for one epoch from its generator
identity and parameter record. Stimuli stored inline pass through
unchanged. Reconstruction is deterministic: the same parameters always
produce the same samples.

Example:
  epochtree reconstruct data.json --epoch 0 --stream LED`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, _ := cmd.Flags().GetInt("epoch")
			stream, _ := cmd.Flags().GetString("stream")
			preview, _ := cmd.Flags().GetInt("preview")
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := newSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if seq < 0 || seq >= len(s.epochs) {
				return fmt.Errorf("epoch %d out of range (archive has %d epochs)", seq, len(s.epochs))
			}
			epoch := s.epochs[seq]

			stim, ok := epoch.Stimulus(stream)
			if !ok {
				return fmt.Errorf("epoch %d has no stimulus stream %q", seq, stream)
			}

			samples, rate, err := reconstruct.Reconstruct(stim)
			if err != nil {
				return fmt.Errorf("failed to reconstruct: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"epoch":       seq,
					"stream":      stream,
					"generator":   stim.Generator,
					"sample_rate": rate,
					"samples":     samples,
				})
			}

			source := stim.Generator
			if source == "" {
				source = "inline data"
			}
			fmt.Printf("Epoch %d, stream %q (%s): %d samples @ %v Hz\n",
				seq, stream, source, len(samples), rate)
			if preview > len(samples) {
				preview = len(samples)
			}
			if preview > 0 {
				fmt.Printf("  first %d: %v\n", preview, samples[:preview])
			}

			return nil
		},
	}

	cmd.Flags().Int("epoch", 0, "Epoch sequence number")
	cmd.Flags().String("stream", "", "Stimulus stream name (required)")
	cmd.Flags().Int("preview", 10, "Number of leading samples to print")
	cmd.MarkFlagRequired("stream")

	return cmd
}

func newGeneratorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generators",
		Short: "List registered stimulus generators",
		Run: func(cmd *cobra.Command, args []string) {
			ids := stimgen.IDs()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"generators": ids,
					"count":      len(ids),
				})
				return
			}
			fmt.Printf("Registered generators (%d):\n", len(ids))
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
		},
	}
}
