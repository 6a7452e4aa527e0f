package cli

import (
	"bufio"
	"delivery-dispatch-service/internal/services"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive order entry and dispatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &menu{
				sys: a.system,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			return m.run()
		},
	}
}

type menu struct {
	sys *services.DeliverySystem
	in  *bufio.Scanner
	out io.Writer
}

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (m *menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) run() error {
	for {
		fmt.Fprintf(m.out, "\n=== DELIVERY DISPATCH (depot: %s) ===\n", m.sys.Graph().Name(m.sys.Depot()))
		fmt.Fprintln(m.out, "1) New order")
		fmt.Fprintln(m.out, "2) Dispatch next (FIFO)")
		fmt.Fprintln(m.out, "3) Show route (nearest neighbor)")
		fmt.Fprintln(m.out, "4) List pending orders")
		fmt.Fprintln(m.out, "5) Show graph")
		fmt.Fprintln(m.out, "0) Quit")

		op, ok := m.prompt("Choice: ")
		if !ok {
			return m.in.Err()
		}

		switch op {
		case "1":
			if !m.newOrder() {
				return m.in.Err()
			}
		case "2":
			m.dispatch()
		case "3":
			m.showRoute()
		case "4":
			m.listPending()
		case "5":
			printGraph(m.out, m.sys.Graph())
		case "0":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Try again.")
		}
	}
}

// pick resolves a 1-based number against options, or returns raw as typed.
func pick(raw string, options []string) (string, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return raw, true
	}
	if n < 1 || n > len(options) {
		return "", false
	}
	return options[n-1], true
}

// newOrder returns false only when input ends mid-dialog.
func (m *menu) newOrder() bool {
	customer, ok := m.prompt("Customer name: ")
	if !ok {
		return false
	}

	neighborhoods := m.sys.ListNeighborhoods()
	fmt.Fprintln(m.out, "Neighborhoods:")
	for i, nb := range neighborhoods {
		fmt.Fprintf(m.out, " %d) %s\n", i+1, nb)
	}
	raw, ok := m.prompt("Neighborhood (number or name): ")
	if !ok {
		return false
	}
	neighborhood, valid := pick(raw, neighborhoods)
	if !valid {
		fmt.Fprintln(m.out, "Invalid neighborhood.")
		return true
	}

	streets := m.sys.ListStreets(neighborhood)
	if len(streets) == 0 {
		fmt.Fprintf(m.out, "Neighborhood '%s' is invalid.\n", neighborhood)
		return true
	}
	fmt.Fprintln(m.out, "Streets:")
	for i, s := range streets {
		fmt.Fprintf(m.out, " %d) %s\n", i+1, s)
	}
	raw, ok = m.prompt("Street (number or name): ")
	if !ok {
		return false
	}
	street, valid := pick(raw, streets)
	if !valid {
		fmt.Fprintln(m.out, "Invalid street.")
		return true
	}

	order, route, err := m.sys.CreateOrder(customer, neighborhood, street)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return true
	}

	fmt.Fprintf(m.out, "Order added: seq=%d for %s - %s\n", order.Seq, order.Neighborhood, order.Street)
	if route.Empty() {
		fmt.Fprintln(m.out, "Route is empty (destinations unreachable).")
		return true
	}
	printRoute(m.out, "Route recomputed", route)
	return true
}

func (m *menu) dispatch() {
	order, ok := m.sys.DispatchNext()
	if !ok {
		fmt.Fprintln(m.out, "No pending orders.")
		return
	}
	fmt.Fprintf(m.out, "DELIVERED seq=%d customer=%s neighborhood=%s street=%s\n",
		order.Seq, order.Customer, order.Neighborhood, order.Street)
}

func (m *menu) showRoute() {
	route := m.sys.ComputeRoute()
	if route.OrderCount() == 0 {
		fmt.Fprintln(m.out, "No pending orders.")
		return
	}
	printRoute(m.out, "Route", route)
}

func (m *menu) listPending() {
	pending := m.sys.ListPending()
	if len(pending) == 0 {
		fmt.Fprintln(m.out, "No pending orders.")
		return
	}
	printPending(m.out, m.sys.Graph(), pending)
}
