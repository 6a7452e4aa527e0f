package cli

import (
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/graph"
	"fmt"
	"io"
	"strings"
)

func printRoute(w io.Writer, title string, route domain.Route) {
	fmt.Fprintf(w, "%s (%.2f total):\n", title, route.TotalDistance)
	fmt.Fprintf(w, "   %s\n", strings.Join(route.NamePath, "  ->  "))
	if len(route.Unreached) > 0 {
		fmt.Fprintf(w, "   unreachable: %s\n", strings.Join(route.Unreached, ", "))
	}
}

func printPending(w io.Writer, g *graph.Graph, pending []domain.Order) {
	fmt.Fprintln(w, "--- PENDING ORDERS (FIFO by seq) ---")
	for _, o := range pending {
		fmt.Fprintf(w, "seq=%d | customer=%s | neighborhood=%s | street=%s | destination=%s | time=%s\n",
			o.Seq, o.Customer, o.Neighborhood, o.Street, g.Name(o.Destination),
			o.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printGraph(w io.Writer, g *graph.Graph) {
	fmt.Fprintln(w, "NODES:")
	for _, n := range g.Nodes() {
		fmt.Fprintf(w, " - %s: %s\n", n.ID, n.Name)
	}
	fmt.Fprintln(w, "EDGES (adjacency):")
	for _, e := range g.Edges() {
		fmt.Fprintf(w, " %s -> %s (weight %g)\n", e.From, e.To, e.Weight)
	}
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
