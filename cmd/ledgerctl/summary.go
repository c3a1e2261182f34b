package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/carson-networks/household-ledger/internal/summary"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <household-id>",
		Short: "Print income, expense and the expense breakdown of a household",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
	cmd.Flags().String("period", string(summary.PeriodMonthly), "monthly, yearly or custom")
	cmd.Flags().String("start", "", "custom range start, YYYY-MM-DD")
	cmd.Flags().String("end", "", "custom range end, YYYY-MM-DD")
	cmd.Flags().String("member", "", "only count this member's transactions")
	cmd.Flags().Bool("dump", false, "also dump the full household snapshot")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	householdID, err := uuid.FromString(args[0])
	if err != nil {
		return fmt.Errorf("household id: %w", err)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	flags := cmd.Flags()
	period, _ := flags.GetString("period")
	member, _ := flags.GetString("member")
	filter := summary.Filter{Period: summary.Period(period), Member: member}
	loc := a.cfg.Location()
	for name, dst := range map[string]*time.Time{"start": &filter.Start, "end": &filter.End} {
		raw, _ := flags.GetString(name)
		if raw == "" {
			continue
		}
		if *dst, err = time.ParseInLocation(time.DateOnly, raw, loc); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
	}

	s, err := a.svc.Report.GetSummary(ctx, householdID, filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Income\t%s\n", s.Income.StringFixed(2))
	fmt.Fprintf(w, "Expense\t%s\n", s.Expense.StringFixed(2))
	fmt.Fprintf(w, "Balance\t%s\n", s.Balance.StringFixed(2))
	if len(s.Breakdown) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "CATEGORY\tTOTAL\tSHARE")
		for _, share := range s.Breakdown {
			fmt.Fprintf(w, "%s\t%s\t%s%%\n", share.Category, share.Total.StringFixed(2), share.Percent.StringFixed(2))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if dump, _ := flags.GetBool("dump"); dump {
		snap, err := a.svc.Household.GetHousehold(ctx, householdID)
		if err != nil {
			return err
		}
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(out, snap)
	}
	return nil
}
