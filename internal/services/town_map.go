package services

import (
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/graph"
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	ErrUnknownDepot      = errors.New("depot is not a map node")
	ErrUnknownStreetNode = errors.New("street references an unknown node")
	ErrDuplicateEdge     = errors.New("edge declared more than once")
	ErrDuplicateStreet   = errors.New("street declared more than once")
)

// ValidateTownMap checks the configuration-level invariants of a town map:
// the depot exists, every catalog street resolves to a node exactly once,
// and no road direction is declared twice. Edges pointing at unknown nodes are not an
// error here; BuildGraph reports and skips them.
func ValidateTownMap(tm *domain.TownMap) error {
	if tm == nil {
		return errors.New("validate town map: map is nil")
	}

	nodes := make(map[string]struct{}, len(tm.Nodes))
	for i, n := range tm.Nodes {
		if strings.TrimSpace(n.ID) == "" {
			return fmt.Errorf("validate town map: node at index %d has empty id", i)
		}
		nodes[n.ID] = struct{}{}
	}

	if _, ok := nodes[tm.Depot]; !ok {
		return fmt.Errorf("validate town map: depot %q: %w", tm.Depot, ErrUnknownDepot)
	}

	var dups []string
	written := make(map[string]int)
	for i, e := range tm.Edges {
		keys := []string{e.From + "|" + e.To}
		if e.Bidirectional {
			keys = append(keys, e.To+"|"+e.From)
		}
		for _, k := range keys {
			if first, ok := written[k]; ok {
				dups = append(dups, fmt.Sprintf("%s (edges #%d and #%d)", k, first+1, i+1))
				continue
			}
			written[k] = i
		}
	}
	if len(dups) > 0 {
		return fmt.Errorf("validate town map: %s: %w", strings.Join(dups, ", "), ErrDuplicateEdge)
	}

	streets := make(map[string]struct{})
	for _, nb := range tm.Neighborhoods {
		nk := domain.NormalizeKey(nb.Name)
		for _, s := range nb.Streets {
			if _, ok := nodes[s.Node]; !ok {
				return fmt.Errorf("validate town map: %s/%s -> %q: %w", nb.Name, s.Name, s.Node, ErrUnknownStreetNode)
			}
			key := nk + "::" + domain.NormalizeKey(s.Name)
			if _, dup := streets[key]; dup {
				return fmt.Errorf("validate town map: %s/%s: %w", nb.Name, s.Name, ErrDuplicateStreet)
			}
			streets[key] = struct{}{}
		}
	}

	return nil
}

// BuildGraph loads the nodes and edges of a town map into a new graph.
// Edges that reference unknown nodes are logged and skipped.
func BuildGraph(tm *domain.TownMap, logger *log.Logger) *graph.Graph {
	g := graph.New()
	for _, n := range tm.Nodes {
		g.AddNodeAt(n.ID, n.Name, n.Position)
	}

	for _, e := range tm.Edges {
		if err := g.AddEdge(e.From, e.To, e.Weight, e.Bidirectional); err != nil {
			logger.Printf("level=warn op=graph.add_edge from=%s to=%s err=%v", e.From, e.To, err)
		}
	}

	return g
}
