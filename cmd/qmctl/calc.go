package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"ISQM/internal/calc/catalog"
	"ISQM/internal/calc/flow"
	"ISQM/internal/form"
	"ISQM/internal/history"
	"ISQM/internal/i18n"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalidInput = errors.New("invalid input")

func init() {
	reg := catalog.Registry()
	for _, name := range reg.Names() {
		c, _ := reg.Lookup(name)
		rootCmd.AddCommand(newCalcCmd(c))
	}
}

// newCalcCmd exposes every form field of c as a string flag. Flags left
// unset are treated as blank input.
func newCalcCmd(c flow.Calculator) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   c.Name(),
		Short: fmt.Sprintf("Compute %s", c.Label(bundle.For(bundle.Fallback()))),
		Args:  cobra.NoArgs,
	}
	fields := form.Names(c.Fields(bundle.For(bundle.Fallback())))
	for _, name := range fields {
		cmd.Flags().String(name, "", name)
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		tr := translator()
		values := map[string]string{}
		for _, name := range fields {
			if f := cmd.Flags().Lookup(name); f.Changed {
				values[name] = f.Value.String()
			}
		}
		rep, out := flow.Run(c, tr, values, form.Interaction{Submitted: true})
		if rep.HasErrors {
			errs := rep.Errors()
			names := make([]string, 0, len(errs))
			for name := range errs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.ErrOrStderr(), "--%s: %s\n", name, errs[name])
			}
			return errInvalidInput
		}
		if out == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), tr.T(i18n.CalcOutOfRange, nil))
			return errInvalidInput
		}
		logger.Debug("computed", zap.String("calculator", c.Name()), zap.Float64("result", out.Result))

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		e := history.Entry{Type: string(c.Type()), Outputs: out.Outputs, Result: out.Result, Unit: out.Unit}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, c.Label(tr))
		for _, item := range history.OutputItems(e, tr) {
			fmt.Fprintf(w, "  %-16s %s %s\n", item.Label, item.Value, item.Unit)
		}
		fmt.Fprintf(w, "Result: %s %s\n", history.FormatResult(e), out.Unit)
		return nil
	}
	return cmd
}
