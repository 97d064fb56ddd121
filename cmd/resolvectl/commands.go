package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/domain/payee"
	"github.com/erp/resolver/internal/domain/period"
	"github.com/erp/resolver/internal/domain/shared"
	"github.com/erp/resolver/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions are the persistent flags shared by every subcommand
type rootOptions struct {
	jsonOutput bool
	verbose    bool
	clock      shared.Clock
}

func (o *rootOptions) newLogger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	log, err := logger.NewForEnvironment("development", logger.Config{Level: "debug", Output: "stderr"})
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// print writes v as indented JSON with --json, otherwise as text
func (o *rootOptions) print(w io.Writer, v any, text string) error {
	if !o.jsonOutput {
		_, err := fmt.Fprintln(w, text)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd(clock shared.Clock) *cobra.Command {
	opts := &rootOptions{clock: clock}

	rootCmd := &cobra.Command{
		Use:           "resolvectl",
		Short:         "Entity resolution toolkit",
		Long:          `Match free-text names against candidates, resolve vendor aliases and normalize check payees`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log matcher decisions to stderr")

	rootCmd.AddCommand(createMatchCmd(opts))
	rootCmd.AddCommand(createAliasCmd(opts))
	rootCmd.AddCommand(createConsolidateCmd(opts))
	rootCmd.AddCommand(createCleanCmd(opts))
	rootCmd.AddCommand(createQuarterCmd(opts))

	return rootCmd
}

// createMatchCmd creates the match subcommand
func createMatchCmd(opts *rootOptions) *cobra.Command {
	var (
		entity        string
		minConfidence float64
		similarity    string
	)
	cmd := &cobra.Command{
		Use:   "match QUERY CANDIDATE...",
		Short: "Find the best candidate for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher := matching.NewFuzzyMatcher(
				matching.WithMinConfidence(minConfidence),
				matching.WithSimilarity(matching.SimilarityByName(similarity)),
				matching.WithLogger(opts.newLogger()),
			)
			result := matcher.FindBestMatch(args[0], args[1:], matching.ParseEntityType(entity))
			return opts.print(cmd.OutOrStdout(), result, result.String())
		},
	}
	cmd.Flags().StringVarP(&entity, "entity", "e", string(matching.EntityGeneric), "entity type: generic, vendor, item, customer, job, payee")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", matching.DefaultMinConfidence, "lowest accepted fuzzy score")
	cmd.Flags().StringVar(&similarity, "similarity", "ratio", "similarity measure: ratio, levenshtein")
	return cmd
}

// createAliasCmd creates the alias subcommand
func createAliasCmd(opts *rootOptions) *cobra.Command {
	var extra map[string]string
	cmd := &cobra.Command{
		Use:   "alias NAME",
		Short: "Resolve a vendor name through the alias table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := alias.NewResolver(alias.DefaultVendorAliases(), alias.WithLogger(opts.newLogger()))
			for _, a := range slices.Sorted(maps.Keys(extra)) {
				if err := resolver.Add(a, extra[a]); err != nil {
					return fmt.Errorf("alias %q: %w", a, err)
				}
			}

			res := resolver.Explain(args[0])
			text := res.Canonical
			if res.Resolved() {
				text = fmt.Sprintf("%s -> %s (%s alias %q)", res.Input, res.Canonical, res.Kind, res.Alias)
			}
			return opts.print(cmd.OutOrStdout(), res, text)
		},
	}
	cmd.Flags().StringToStringVar(&extra, "add", nil, "extra aliases as alias=canonical")
	return cmd
}

// createConsolidateCmd creates the consolidate subcommand
func createConsolidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate NAME",
		Short: "Map a payee name to its fuel brand",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := payee.NewConsolidator(payee.WithLogger(opts.newLogger()))
			res := c.Explain(strings.Join(args, " "))
			return opts.print(cmd.OutOrStdout(), res, res.Name)
		},
	}
}

// createCleanCmd creates the clean subcommand
func createCleanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean NAME",
		Short: "Strip transaction noise from a payee name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			cleaned := payee.NewConsolidator().Clean(input)
			return opts.print(cmd.OutOrStdout(), map[string]string{"input": input, "name": cleaned}, cleaned)
		},
	}
}

type quarterInfo struct {
	Date       string   `json:"date"`
	Key        string   `json:"key"`
	Start      string   `json:"start"`
	LastDay    string   `json:"last_day"`
	Previous   string   `json:"previous"`
	RecentKeys []string `json:"recent_keys"`
}

// createQuarterCmd creates the quarter subcommand
func createQuarterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quarter [DATE]",
		Short: "Show the cache partition for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := opts.clock.Now()
			if len(args) == 1 {
				t, ok := ledger.ParseDate(args[0])
				if !ok {
					return fmt.Errorf("%w: unrecognized date %q", shared.ErrInvalidInput, args[0])
				}
				now = t
			}

			q := period.Current(now)
			info := quarterInfo{
				Date:       now.Format(time.DateOnly),
				Key:        q.Key(),
				Start:      q.Start(now.Location()).Format(time.DateOnly),
				LastDay:    q.LastDay(now.Location()).Format(time.DateOnly),
				Previous:   period.Previous(now).Key(),
				RecentKeys: period.RecentKeys(now),
			}
			text := fmt.Sprintf("%s (%s to %s), recent: %s",
				info.Key, info.Start, info.LastDay, strings.Join(info.RecentKeys, ", "))
			return opts.print(cmd.OutOrStdout(), info, text)
		},
	}
}
