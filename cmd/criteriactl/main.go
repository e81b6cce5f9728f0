// Command criteriactl inspects achievement data packs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/realmcore/achievement-server-go/internal/datapack"
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	json bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "criteriactl",
		Short:         "Inspect achievement data packs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "output JSON")

	root.AddCommand(validateCmd())
	root.AddCommand(statsCmd(opts))
	root.AddCommand(treeCmd(opts))
	root.AddCommand(packCmd())
	return root
}

func loadRegistry(ctx context.Context, path string) (datapack.Document, *criteria.Registry, criteria.LoadStats, error) {
	doc, err := datapack.Load(ctx, path, zap.NewNop())
	if err != nil {
		return datapack.Document{}, nil, criteria.LoadStats{}, err
	}
	registry, stats := criteria.Load(doc.Data(), zap.NewNop())
	return doc, registry, stats, nil
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <pack>",
		Short: "Check a data pack against the schema and link its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, stats, err := loadRegistry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows, version %d\n", args[0], doc.Rows(), doc.Version)
			if stats.SkippedRows > 0 {
				fmt.Fprintf(out, "warning: %d rows reference unknown ids and were skipped\n", stats.SkippedRows)
			}
			if stats.CriteriaTreesUnanchored > 0 {
				fmt.Fprintf(out, "warning: %d criteria trees have no achievement, scenario step or quest objective\n", stats.CriteriaTreesUnanchored)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}

func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <pack>",
		Short: "Show load statistics and criteria counts by type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, stats, err := loadRegistry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			byType := countByType(registry)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"stats":   stats,
					"by_type": byType,
				})
			}
			renderStats(cmd.OutOrStdout(), stats, byType)
			return nil
		},
	}
}

func treeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <pack> <achievement-id>",
		Short: "Print the criteria tree of an achievement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid achievement id %q: %w", args[1], err)
			}
			_, registry, _, err := loadRegistry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ach := registry.Achievement(uint32(id))
			if ach == nil {
				return fmt.Errorf("achievement %d not found", id)
			}
			treeID := ach.CriteriaTree
			if treeID == 0 && ach.SharesCriteria != 0 {
				if shared := registry.Achievement(ach.SharesCriteria); shared != nil {
					treeID = shared.CriteriaTree
				}
			}
			tree := registry.CriteriaTree(treeID)
			if tree == nil {
				return fmt.Errorf("achievement %d has no criteria tree", id)
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), treeJSON(tree))
			}
			renderTree(cmd.OutOrStdout(), ach, tree)
			return nil
		},
	}
}

func packCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <in> <out>",
		Short: "Validate a data pack and write it out, zstd compressed when out ends in .zst",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := datapack.Load(cmd.Context(), args[0], zap.NewNop())
			if err != nil {
				return err
			}
			if err := datapack.Write(args[1], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", doc.Rows(), args[1])
			return nil
		},
	}
}

type typeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func countByType(registry *criteria.Registry) []typeCount {
	counts := make(map[criteria.CriteriaType]int)
	for _, c := range registry.AllCriteria() {
		counts[c.Entry.Type]++
	}
	out := make([]typeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, typeCount{Type: t.String(), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func renderStats(w io.Writer, stats criteria.LoadStats, byType []typeCount) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Definition", "Loaded"})
	tw.AppendRows([]table.Row{
		{"criteria", stats.Criteria},
		{"criteria (unreferenced, dropped)", stats.CriteriaUnreferenced},
		{"criteria trees", stats.CriteriaTrees},
		{"criteria trees (unanchored)", stats.CriteriaTreesUnanchored},
		{"modifier trees", stats.ModifierTrees},
		{"achievements", stats.Achievements},
		{"criteria data", stats.CriteriaData},
		{"rewards", stats.Rewards},
		{"skipped rows", stats.SkippedRows},
	})
	tw.Render()

	tt := table.NewWriter()
	tt.SetOutputMirror(w)
	tt.AppendHeader(table.Row{"Criteria type", "Count"})
	for _, c := range byType {
		tt.AppendRow(table.Row{c.Type, c.Count})
	}
	tt.Render()
}

func describe(tree *criteria.CriteriaTree) string {
	if tree.Criteria != nil {
		return fmt.Sprintf("[%d] %s asset=%d amount=%d", tree.ID, tree.Criteria.Entry.Type, tree.Criteria.Entry.Asset, tree.Amount)
	}
	if tree.Entry == nil {
		return fmt.Sprintf("[%d]", tree.ID)
	}
	label := fmt.Sprintf("[%d] %s", tree.ID, tree.Entry.Operator)
	if tree.Amount != 0 {
		label += fmt.Sprintf(" amount=%d", tree.Amount)
	}
	return label
}

func renderTree(w io.Writer, ach *criteria.AchievementRecord, root *criteria.CriteriaTree) {
	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedRounded)
	l.AppendItem(fmt.Sprintf("%d %s (%d points)", ach.ID, ach.Title, ach.Points))
	l.Indent()
	var add func(tree *criteria.CriteriaTree)
	add = func(tree *criteria.CriteriaTree) {
		item := describe(tree)
		if tree.Entry != nil && tree.Entry.Description != "" {
			item += " " + strconv.Quote(tree.Entry.Description)
		}
		l.AppendItem(item)
		if len(tree.Children) == 0 {
			return
		}
		l.Indent()
		for _, child := range tree.Children {
			add(child)
		}
		l.UnIndent()
	}
	add(root)
	l.Render()
}

type treeNode struct {
	ID           uint32     `json:"id"`
	Operator     string     `json:"operator,omitempty"`
	Amount       uint64     `json:"amount"`
	CriteriaID   uint32     `json:"criteria_id,omitempty"`
	CriteriaType string     `json:"criteria_type,omitempty"`
	Asset        uint32     `json:"asset,omitempty"`
	Children     []treeNode `json:"children,omitempty"`
}

func treeJSON(tree *criteria.CriteriaTree) treeNode {
	node := treeNode{ID: tree.ID, Amount: tree.Amount}
	if tree.Criteria != nil {
		node.CriteriaID = tree.Criteria.ID
		node.CriteriaType = tree.Criteria.Entry.Type.String()
		node.Asset = tree.Criteria.Entry.Asset
	} else if tree.Entry != nil {
		node.Operator = tree.Entry.Operator.String()
	}
	for _, child := range tree.Children {
		node.Children = append(node.Children, treeJSON(child))
	}
	return node
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
