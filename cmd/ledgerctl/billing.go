package main

import (
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/carson-networks/household-ledger/internal/billing"
)

func billingCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing-check",
		Short: "Reset every credit account whose billing day is today",
		Long: `Runs the billing-cycle check once for every stored household.

Accounts already reset on the given date are skipped, so running the
command twice on one day changes nothing. It is safe to run next to a
live server: the server notices the newer household version on its next
write, fails that write as retryable and reloads the household.`,
		RunE: runBillingCheck,
	}
	cmd.Flags().String("as-of", "", "date to check, YYYY-MM-DD in the household time zone (default: today)")
	return cmd
}

func runBillingCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	loc := a.cfg.Location()
	asOf := time.Now().In(loc)
	if raw, _ := cmd.Flags().GetString("as-of"); raw != "" {
		if asOf, err = time.ParseInLocation(time.DateOnly, raw, loc); err != nil {
			return fmt.Errorf("--as-of: %w", err)
		}
	}

	if err := a.delegator.Start(ctx); err != nil {
		return err
	}
	scheduler := billing.NewScheduler(a.delegator, time.Hour, loc, nil, a.log)
	reset, err := scheduler.RunOnce(ctx, asOf)

	ids := make([]uuid.UUID, 0, len(reset))
	for id := range reset {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(x, y uuid.UUID) int { return slices.Compare(x.Bytes(), y.Bytes()) })

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HOUSEHOLD\tACCOUNT\tMEMBER")
	for _, id := range ids {
		for _, acc := range reset[id] {
			fmt.Fprintf(w, "%s\t%s\t%s\n", id, acc.Name, acc.Member)
		}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}
