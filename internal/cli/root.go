// Package cli implements the dispatchctl operator commands.
package cli

import (
	"delivery-dispatch-service/internal/adapters/mapfile"
	"delivery-dispatch-service/internal/config"
	"delivery-dispatch-service/internal/services"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
)

type app struct {
	cfgFile string
	mapPath string
	verbose bool

	system *services.DeliverySystem
}

// NewRootCmd builds the dispatchctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dispatchctl",
		Short:         "Operate a single-depot delivery dispatcher from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&a.mapPath, "map", "", "town map YAML (overrides map_path; default is the built-in town)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log warnings to stderr")

	root.AddCommand(
		newMenuCmd(a),
		newGraphCmd(a),
		newSimulateCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	path := cfg.MapPath
	if a.mapPath != "" {
		path = a.mapPath
	}
	tm, err := mapfile.LoadOrDefault(path)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if a.verbose {
		logger = log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	}

	a.system, err = services.NewDeliverySystem(tm, services.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("dispatchctl: %w", err)
	}
	return nil
}
