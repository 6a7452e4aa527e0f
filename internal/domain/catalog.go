package domain

import "strings"

// Street entry of a neighborhood: the label shown to users and the
// destination node it resolves to.
type Street struct {
	Name string
	Node string
}

// Neighborhood groups the streets offered for delivery in one area of town.
type Neighborhood struct {
	Name    string
	Streets []Street
}

// Catalog is the read-only lookup table from (neighborhood, street) pairs to
// destination nodes. Keys are matched trimmed and upper-cased; declaration
// order is kept for listings. A repeated street keeps its first entry.
type Catalog struct {
	neighborhoods []Neighborhood
	byKey         map[string]int
	streets       map[string]string
}

// NormalizeKey is the canonical form used for catalog lookups.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func NewCatalog(neighborhoods []Neighborhood) *Catalog {
	c := &Catalog{
		neighborhoods: make([]Neighborhood, 0, len(neighborhoods)),
		byKey:         make(map[string]int, len(neighborhoods)),
		streets:       make(map[string]string),
	}

	for _, n := range neighborhoods {
		key := NormalizeKey(n.Name)
		idx, ok := c.byKey[key]
		if !ok {
			idx = len(c.neighborhoods)
			c.byKey[key] = idx
			c.neighborhoods = append(c.neighborhoods, Neighborhood{Name: strings.TrimSpace(n.Name)})
		}
		for _, s := range n.Streets {
			sk := streetKey(key, NormalizeKey(s.Name))
			if _, dup := c.streets[sk]; dup {
				continue
			}
			c.neighborhoods[idx].Streets = append(c.neighborhoods[idx].Streets, s)
			c.streets[sk] = s.Node
		}
	}

	return c
}

func streetKey(neighborhood, street string) string {
	return neighborhood + "::" + street
}

// Neighborhoods returns neighborhood names in declaration order.
func (c *Catalog) Neighborhoods() []string {
	out := make([]string, 0, len(c.neighborhoods))
	for _, n := range c.neighborhoods {
		out = append(out, n.Name)
	}
	return out
}

// Streets returns the street names of a neighborhood, or nil when the
// neighborhood is unknown.
func (c *Catalog) Streets(neighborhood string) ([]string, bool) {
	idx, ok := c.byKey[NormalizeKey(neighborhood)]
	if !ok {
		return nil, false
	}
	streets := c.neighborhoods[idx].Streets
	out := make([]string, 0, len(streets))
	for _, s := range streets {
		out = append(out, s.Name)
	}
	return out, true
}

// Resolve maps a neighborhood/street choice to its destination node.
// hasNeighborhood distinguishes an unknown neighborhood from an unknown street.
func (c *Catalog) Resolve(neighborhood, street string) (node string, hasNeighborhood bool, ok bool) {
	nk := NormalizeKey(neighborhood)
	if _, found := c.byKey[nk]; !found {
		return "", false, false
	}
	node, ok = c.streets[streetKey(nk, NormalizeKey(street))]
	return node, true, ok
}

// Nodes returns every destination node referenced by the catalog.
func (c *Catalog) Nodes() []string {
	out := make([]string, 0, len(c.streets))
	for _, n := range c.neighborhoods {
		for _, s := range n.Streets {
			out = append(out, s.Node)
		}
	}
	return out
}
