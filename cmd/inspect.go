package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-servicemanager/framework/container"
)

func newResolveCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve a type id or alias and print the instance type",
		Long: `Resolve a type id or alias in the booted application.

Examples:
  servicemanager resolve greeter
  servicemanager resolve github.com/km-arc/go-servicemanager/app.ServiceB`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			id := container.TypeID(args[0])
			inst, err := a.GetServiceContext(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%T\n", id, inst)
			return err
		},
	}
}

func newAliasesCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List the alias table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range a.Aliases() {
				fmt.Fprintf(w, "%s\t->\t%s\n", e.Source, e.Target)
			}
			return w.Flush()
		},
	}
}

func newServicesCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List registered services in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := boot()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, rec := range a.Services() {
				fmt.Fprintf(w, "%s\t%T\n", rec.Type, rec.Instance)
			}
			return w.Flush()
		},
	}
}
