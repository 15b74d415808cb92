package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"jobtrust/internal/bootstrap"
	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/usecase/normalization"
)

var employerCmd = &cobra.Command{
	Use:   "employer",
	Short: "Employer credibility commands",
}

var employerScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recompute an employer's credibility from its stored facts",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		employerID, _ := cmd.Flags().GetString("employer")
		profile, err := svc.ScoreEmployer(ctx, employerID)
		if err != nil {
			logging.Error(ctx, "score employer failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "score employer")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "employer scored: id=%s score=%.1f status=%s risk=%s\n",
			profile.EmployerID, profile.CredibilityScore, profile.Status, profile.Risk); err != nil {
			return errs.Wrap(err, "write score output")
		}
		return nil
	}),
}

var employerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print an employer profile as JSON",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		employerID, _ := cmd.Flags().GetString("employer")
		profile, err := svc.GetEmployer(ctx, employerID)
		if err != nil {
			logging.Error(ctx, "load employer failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load employer")
		}

		encoded, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return errs.Wrap(err, "encode employer profile")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(encoded)); err != nil {
			return errs.Wrap(err, "write show output")
		}
		return nil
	}),
}

var employerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Set or clear the manual verification flag",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		employerID, _ := cmd.Flags().GetString("employer")
		revoke, _ := cmd.Flags().GetBool("revoke")
		verifiedBy, _ := cmd.Flags().GetString("by")
		notes, _ := cmd.Flags().GetString("notes")

		profile, err := svc.VerifyEmployer(ctx, employerID, !revoke, verifiedBy, notes)
		if err != nil {
			logging.Error(ctx, "verify employer failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "verify employer")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "employer verification updated: id=%s verified=%t score=%.1f status=%s\n",
			profile.EmployerID, profile.Facts.IsVerifiedEmployer, profile.CredibilityScore, profile.Status); err != nil {
			return errs.Wrap(err, "write verify output")
		}
		return nil
	}),
}

var employerFactsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Replace an employer's stored facts from a JSON file and reassess",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		employerID, _ := cmd.Flags().GetString("employer")
		factsFile, _ := cmd.Flags().GetString("facts-file")

		raw, err := os.ReadFile(factsFile)
		if err != nil {
			return errs.Wrapf(err, "read facts file %q", factsFile)
		}
		var facts trust.EmployerFacts
		if err := json.Unmarshal(raw, &facts); err != nil {
			return errs.Wrapf(err, "decode facts file %q", factsFile)
		}

		profile, err := svc.UpdateEmployerFacts(ctx, employerID, facts)
		if err != nil {
			logging.Error(ctx, "update employer facts failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "update employer facts")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "employer facts updated: id=%s score=%.1f status=%s risk=%s\n",
			profile.EmployerID, profile.CredibilityScore, profile.Status, profile.Risk); err != nil {
			return errs.Wrap(err, "write facts output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(employerCmd)
	employerCmd.AddCommand(employerScoreCmd)
	employerCmd.AddCommand(employerShowCmd)
	employerCmd.AddCommand(employerVerifyCmd)
	employerCmd.AddCommand(employerFactsCmd)

	employerScoreCmd.Flags().String("employer", "", "Employer id")
	_ = employerScoreCmd.MarkFlagRequired("employer")

	employerShowCmd.Flags().String("employer", "", "Employer id")
	_ = employerShowCmd.MarkFlagRequired("employer")

	employerVerifyCmd.Flags().String("employer", "", "Employer id")
	employerVerifyCmd.Flags().Bool("revoke", false, "Clear the verification flag instead of setting it")
	employerVerifyCmd.Flags().String("by", "", "Verifier id recorded with the decision")
	employerVerifyCmd.Flags().String("notes", "", "Notes recorded with the decision")
	_ = employerVerifyCmd.MarkFlagRequired("employer")

	employerFactsCmd.Flags().String("employer", "", "Employer id")
	employerFactsCmd.Flags().String("facts-file", "", "Path to a JSON facts document")
	_ = employerFactsCmd.MarkFlagRequired("employer")
	_ = employerFactsCmd.MarkFlagRequired("facts-file")
}
