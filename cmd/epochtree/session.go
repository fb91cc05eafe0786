package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/epochtree/internal/config"
	"github.com/nvandessel/epochtree/internal/importer"
	"github.com/nvandessel/epochtree/internal/logging"
	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/rules"
	"github.com/nvandessel/epochtree/internal/selection"
	"github.com/nvandessel/epochtree/internal/traces"
	"github.com/nvandessel/epochtree/internal/tree"
)

// session bundles the state most subcommands need: the loaded archive,
// its flattened epoch set, and a trace loader over the configured
// backing store.
type session struct {
	cfg      *config.EpochtreeConfig
	logger   *slog.Logger
	archive  *importer.Archive
	warnings []importer.Warning
	epochs   []*models.Epoch
	loader   *traces.Loader

	store traces.Store
	fetch *logging.FetchLogger
}

// newSession loads configuration, the archive at archivePath, and opens
// the trace backing store. Load warnings are printed to stderr unless
// strict mode promotes them to an error.
func newSession(cmd *cobra.Command, archivePath string) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

	archive, warnings, err := importer.Load(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive: %w", err)
	}
	if len(warnings) > 0 && cfg.Import.StrictWarnings {
		return nil, fmt.Errorf("archive has %d warnings and strict_warnings is set (first: %s: %s)",
			len(warnings), warnings[0].Path, warnings[0].Message)
	}
	jsonOut, _ := cmd.Flags().GetBool("json")
	if !jsonOut {
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Path, w.Message)
		}
	}

	var store traces.Store
	if cfg.Store.Path != "" {
		store, err = traces.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace store: %w", err)
		}
	} else {
		store = traces.NewMemoryStore()
	}

	fetch := logging.NewFetchLogger(".epochtree", cfg.Logging.Level)

	return &session{
		cfg:      cfg,
		logger:   logger,
		archive:  archive,
		warnings: warnings,
		epochs:   importer.Flatten(archive),
		loader:   traces.NewLoader(store, logger, fetch),
		store:    store,
		fetch:    fetch,
	}, nil
}

// Close releases the backing store and log files.
func (s *session) Close() {
	s.fetch.Close()
	if s.store != nil {
		s.store.Close()
	}
}

// buildTree groups the session's epochs by the comma-separated rule list.
func (s *session) buildTree(groupBy string) (*tree.Node, error) {
	ids := splitRuleIDs(groupBy)
	ruleList, err := rules.ResolveAll(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grouping rules: %w", err)
	}
	return tree.Build(s.epochs, ruleList), nil
}

// applyMask loads the mask at path and applies it to the session's epochs.
func (s *session) applyMask(path string) error {
	mask, err := selection.LoadMask(path)
	if err != nil {
		return fmt.Errorf("failed to load selection mask: %w", err)
	}
	if err := mask.Apply(s.epochs); err != nil {
		return fmt.Errorf("failed to apply selection mask: %w", err)
	}
	return nil
}

// loadConfig resolves configuration from --config, the default locations,
// and flag overrides, then validates it.
func loadConfig(cmd *cobra.Command) (*config.EpochtreeConfig, error) {
	var cfg *config.EpochtreeConfig
	var err error

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if storePath, _ := cmd.Flags().GetString("store"); storePath != "" {
		cfg.Store.Path = storePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveNode walks a "/"-separated path of split values from the root.
// Each segment matches by substring, so qualified protocol names can be
// addressed by their short form.
func resolveNode(root *tree.Node, path string) (*tree.Node, error) {
	node := root
	for _, segment := range strings.Split(path, "/") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		next := node.ChildBySplitValue(segment)
		if next == nil {
			return nil, fmt.Errorf("no child matching %q under %q", segment, nodePathOrRoot(node))
		}
		node = next
	}
	return node, nil
}

func nodePathOrRoot(n *tree.Node) string {
	if p := n.PathString(); p != "" {
		return p
	}
	return "root"
}

func splitRuleIDs(groupBy string) []string {
	var ids []string
	for _, id := range strings.Split(groupBy, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
