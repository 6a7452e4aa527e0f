package cli

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type simulateOptions struct {
	orders   int
	dispatch int
	seed     int64
	quiet    bool
}

func newSimulateCmd(a *app) *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Create random orders, dispatch some, and print the resulting route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.orders < 0 || opts.dispatch < 0 {
				return fmt.Errorf("simulate: --orders and --dispatch must be non-negative")
			}
			return a.simulate(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.orders, "orders", 10, "number of random orders to create")
	cmd.Flags().IntVar(&opts.dispatch, "dispatch", 0, "number of orders to dispatch afterwards")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42, "random seed")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "hide the progress bar")
	return cmd
}

func (a *app) simulate(cmd *cobra.Command, opts simulateOptions) error {
	out := cmd.OutOrStdout()
	rng := rand.New(rand.NewSource(opts.seed))
	fake := faker.NewWithSeed(rand.NewSource(opts.seed))

	barOut := cmd.ErrOrStderr()
	if opts.quiet {
		barOut = nil
	}
	bar := progressbar.NewOptions(opts.orders,
		progressbar.OptionSetWriter(writerOrDiscard(barOut)),
		progressbar.OptionSetDescription("creating orders"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	neighborhoods := a.system.ListNeighborhoods()
	if len(neighborhoods) == 0 {
		return fmt.Errorf("simulate: town has no neighborhoods")
	}

	for i := 0; i < opts.orders; i++ {
		nb := neighborhoods[rng.Intn(len(neighborhoods))]
		streets := a.system.ListStreets(nb)
		if len(streets) == 0 {
			return fmt.Errorf("simulate: neighborhood %s has no streets", nb)
		}
		street := streets[rng.Intn(len(streets))]

		if _, _, err := a.system.CreateOrder(fake.Person().Name(), nb, street); err != nil {
			return fmt.Errorf("simulate: %w", err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	for i := 0; i < opts.dispatch; i++ {
		order, ok := a.system.DispatchNext()
		if !ok {
			break
		}
		fmt.Fprintf(out, "dispatched seq=%d customer=%s destination=%s\n", order.Seq, order.Customer, order.Destination)
	}

	route := a.system.ComputeRoute()
	fmt.Fprintf(out, "pending=%d\n", route.OrderCount())
	printRoute(out, "Route", route)
	return nil
}
