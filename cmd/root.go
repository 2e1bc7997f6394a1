// Package cmd implements the servicemanager command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	demo "github.com/km-arc/go-servicemanager/app"
	"github.com/km-arc/go-servicemanager/framework/app"
)

var version = "dev"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "servicemanager",
		Short:         "Dependency resolution and instantiation engine",
		Long:          `Runs and inspects a service container: the demo application, its framework providers and the diagnostics API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVarP(&envFiles, "env-file", "e", nil,
		"env file(s) to load (default: .env)")

	boot := func() (*app.Application, error) {
		a, err := app.New(envFiles...)
		if err != nil {
			return nil, err
		}
		if err := a.Register(&demo.AppServiceProvider{}); err != nil {
			return nil, fmt.Errorf("register app provider: %w", err)
		}
		if err := a.Boot(); err != nil {
			return nil, err
		}
		return a, nil
	}

	root.AddCommand(
		newServeCmd(boot),
		newResolveCmd(boot),
		newAliasesCmd(boot),
		newServicesCmd(boot),
	)
	return root
}

type bootFunc func() (*app.Application, error)

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	app.SetVersion(v)
}
