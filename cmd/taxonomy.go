package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jobtrust/internal/bootstrap"
	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
	"jobtrust/internal/usecase/normalization"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Manage the learned title and skill vocabulary",
}

type seedEntry struct {
	Raw       string `yaml:"raw"`
	Canonical string `yaml:"canonical"`
}

type seedDocument struct {
	Titles     []seedEntry `yaml:"titles"`
	Skills     []seedEntry `yaml:"skills"`
	Industries []seedEntry `yaml:"industries"`
}

var taxonomySeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load curated canonical entries from a YAML file",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		seedFile, _ := cmd.Flags().GetString("file")
		raw, err := os.ReadFile(seedFile)
		if err != nil {
			return errs.Wrapf(err, "read seed file %q", seedFile)
		}

		var doc seedDocument
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return errs.Wrapf(err, "decode seed file %q", seedFile)
		}

		var entries []ports.TaxonomyEntry
		appendKind := func(kind string, items []seedEntry) {
			for _, item := range items {
				entries = append(entries, ports.TaxonomyEntry{
					Kind:      kind,
					RawTerm:   item.Raw,
					Canonical: item.Canonical,
				})
			}
		}
		appendKind(ports.TaxonomyKindTitle, doc.Titles)
		appendKind(ports.TaxonomyKindSkill, doc.Skills)
		appendKind(ports.TaxonomyKindIndustry, doc.Industries)

		if err := svc.SeedTaxonomy(ctx, entries); err != nil {
			logging.Error(ctx, "seed taxonomy failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "seed taxonomy")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "taxonomy seeded: entries=%d\n", len(entries)); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most observed vocabulary entries of one kind",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := svc.ListTaxonomy(ctx, kind, limit)
		if err != nil {
			logging.Error(ctx, "list taxonomy failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list taxonomy")
		}

		if len(entries) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no entries"); err != nil {
				return errs.Wrap(err, "write taxonomy output")
			}
			return nil
		}
		for _, entry := range entries {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "entry: kind=%s raw=%q canonical=%q seen=%d verified=%t\n",
				entry.Kind, entry.RawTerm, entry.Canonical, entry.OccurrenceCount, entry.Verified); err != nil {
				return errs.Wrap(err, "write taxonomy output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(taxonomySeedCmd)
	taxonomyCmd.AddCommand(taxonomyListCmd)

	taxonomySeedCmd.Flags().String("file", "", "Path to a YAML seed document")
	_ = taxonomySeedCmd.MarkFlagRequired("file")

	taxonomyListCmd.Flags().String("kind", ports.TaxonomyKindTitle, "Entry kind: title, skill or industry")
	taxonomyListCmd.Flags().Int("limit", 50, "Maximum entries to print")
}
