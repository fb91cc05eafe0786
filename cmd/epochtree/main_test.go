package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/rules"
	"github.com/nvandessel/epochtree/internal/tree"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "epochtree",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().String("store", "", "SQLite trace store path")
	return rootCmd
}

// isolateHome sets HOME to a temp directory to avoid touching real ~/.epochtree/
func isolateHome(t *testing.T, tmpDir string) {
	t.Helper()
	tmpHome := filepath.Join(tmpDir, "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
}

func writeTestArchive(t *testing.T, dir string) string {
	t.Helper()
	content := `{
		"version": 2,
		"id": "test-arch",
		"source": "test.h5",
		"experiments": [{
			"label": "exp",
			"cells": [{
				"label": "c1",
				"properties": {"cellType": "A"},
				"epoch_groups": [{
					"label": "g",
					"epoch_blocks": [{
						"protocol_id": "P1",
						"epochs": [
							{"responses": [{"name": "Amp1", "sample_rate": 1000, "samples": [1, 2, 3]}]},
							{"responses": [{"name": "Amp1", "sample_rate": 1000, "samples": [4, 5, 6]}]}
						]
					}]
				}]
			}]
		}]
	}`
	path := filepath.Join(dir, "archive.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write archive: %v", err)
	}
	return path
}

func TestSplitRuleIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "cellType", []string{"cellType"}},
		{"multiple", "cellType,protocolID", []string{"cellType", "protocolID"}},
		{"spaces and empties", " cellType , ,protocolID ", []string{"cellType", "protocolID"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitRuleIDs(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("splitRuleIDs(%q) = %v, want %v", tt.input, got, tt.want)
				return
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitRuleIDs(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveNode(t *testing.T) {
	epochs := []*models.Epoch{
		{Seq: 0, Selected: true, Meta: map[string]interface{}{"cellType": "A", "protocol": "P1"}},
		{Seq: 1, Selected: true, Meta: map[string]interface{}{"cellType": "A", "protocol": "P2"}},
		{Seq: 2, Selected: true, Meta: map[string]interface{}{"cellType": "B", "protocol": "P1"}},
	}
	rs, err := rules.ResolveAll([]string{"cellType", "protocol"})
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	root := tree.Build(epochs, rs)

	t.Run("two-segment path", func(t *testing.T) {
		node, err := resolveNode(root, "A/P2")
		if err != nil {
			t.Fatalf("resolveNode: %v", err)
		}
		if node.EpochCount() != 1 {
			t.Errorf("epoch count = %d, want 1", node.EpochCount())
		}
	})

	t.Run("empty path is the root", func(t *testing.T) {
		node, err := resolveNode(root, "")
		if err != nil {
			t.Fatalf("resolveNode: %v", err)
		}
		if node != root {
			t.Error("empty path should resolve to root")
		}
	})

	t.Run("unknown segment", func(t *testing.T) {
		_, err := resolveNode(root, "A/P9")
		if err == nil || !strings.Contains(err.Error(), "P9") {
			t.Errorf("err = %v, want error naming the segment", err)
		}
	})
}

func TestNewSession(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	archivePath := writeTestArchive(t, tmpDir)

	rootCmd := newTestRootCmd()
	s, err := newSession(rootCmd, archivePath)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer s.Close()

	if len(s.epochs) != 2 {
		t.Errorf("epochs = %d, want 2", len(s.epochs))
	}
	if s.archive.ID != "test-arch" {
		t.Errorf("archive id = %q", s.archive.ID)
	}

	root, err := s.buildTree("cellType")
	if err != nil {
		t.Fatalf("buildTree: %v", err)
	}
	if root.ChildCount() != 1 || root.EpochCount() != 2 {
		t.Errorf("tree shape = %d children, %d epochs", root.ChildCount(), root.EpochCount())
	}
}

func TestNewSession_MissingArchive(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	rootCmd := newTestRootCmd()
	if _, err := newSession(rootCmd, filepath.Join(tmpDir, "nope.json")); err == nil {
		t.Error("expected error for missing archive")
	}
}

func TestSelectedEpochs(t *testing.T) {
	epochs := []*models.Epoch{
		{Seq: 0, Selected: true},
		{Seq: 1, Selected: false},
		{Seq: 2, Selected: true},
	}
	got := selectedEpochs(epochs)
	if len(got) != 2 || got[0].Seq != 0 || got[1].Seq != 2 {
		t.Errorf("selectedEpochs = %v", got)
	}
}
