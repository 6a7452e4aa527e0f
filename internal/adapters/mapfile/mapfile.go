// Package mapfile reads town maps from YAML documents.
package mapfile

import (
	"bytes"
	"context"
	"delivery-dispatch-service/internal/domain"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed town.yaml
var defaultTown []byte

type fileMap struct {
	Depot         string             `yaml:"depot"`
	Nodes         []fileNode         `yaml:"nodes"`
	Edges         []fileEdge         `yaml:"edges"`
	Neighborhoods []fileNeighborhood `yaml:"neighborhoods"`
}

type fileNode struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Position *filePosition `yaml:"position,omitempty"`
}

type filePosition struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type fileEdge struct {
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	Weight      float64 `yaml:"weight"`
	Directional bool    `yaml:"directional,omitempty"`
}

type fileNeighborhood struct {
	Name    string       `yaml:"name"`
	Streets []fileStreet `yaml:"streets"`
}

type fileStreet struct {
	Name string `yaml:"name"`
	Node string `yaml:"node"`
}

// Default returns the built-in town served when no map file is configured.
func Default() (*domain.TownMap, error) {
	tm, err := Parse(defaultTown)
	if err != nil {
		return nil, fmt.Errorf("mapfile default: %w", err)
	}
	return tm, nil
}

func Load(path string) (*domain.TownMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile load %s: %w", path, err)
	}
	tm, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mapfile load %s: %w", path, err)
	}
	return tm, nil
}

// LoadOrDefault loads path, or the built-in town when path is empty.
func LoadOrDefault(path string) (*domain.TownMap, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes a YAML town map. Unknown fields are rejected so typos in
// hand-written maps surface early.
func Parse(data []byte) (*domain.TownMap, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fm fileMap
	if err := dec.Decode(&fm); err != nil {
		return nil, fmt.Errorf("parse town map: %w", err)
	}
	if fm.Depot == "" {
		return nil, errors.New("parse town map: depot is required")
	}

	tm := &domain.TownMap{
		Depot:         fm.Depot,
		Nodes:         make([]domain.Node, 0, len(fm.Nodes)),
		Edges:         make([]domain.Edge, 0, len(fm.Edges)),
		Neighborhoods: make([]domain.Neighborhood, 0, len(fm.Neighborhoods)),
	}

	for _, n := range fm.Nodes {
		node := domain.Node{ID: n.ID, Name: n.Name}
		if n.Position != nil {
			node.Position = &domain.Position{X: n.Position.X, Y: n.Position.Y}
		}
		tm.Nodes = append(tm.Nodes, node)
	}

	for _, e := range fm.Edges {
		tm.Edges = append(tm.Edges, domain.Edge{
			From:          e.From,
			To:            e.To,
			Weight:        e.Weight,
			Bidirectional: !e.Directional,
		})
	}

	for _, nb := range fm.Neighborhoods {
		streets := make([]domain.Street, 0, len(nb.Streets))
		for _, s := range nb.Streets {
			streets = append(streets, domain.Street{Name: s.Name, Node: s.Node})
		}
		tm.Neighborhoods = append(tm.Neighborhoods, domain.Neighborhood{Name: nb.Name, Streets: streets})
	}

	return tm, nil
}

// Marshal encodes a town map in the same layout Parse reads.
func Marshal(tm *domain.TownMap) ([]byte, error) {
	fm := fileMap{Depot: tm.Depot}
	for _, n := range tm.Nodes {
		fn := fileNode{ID: n.ID, Name: n.Name}
		if n.Position != nil {
			fn.Position = &filePosition{X: n.Position.X, Y: n.Position.Y}
		}
		fm.Nodes = append(fm.Nodes, fn)
	}
	for _, e := range tm.Edges {
		fm.Edges = append(fm.Edges, fileEdge{From: e.From, To: e.To, Weight: e.Weight, Directional: !e.Bidirectional})
	}
	for _, nb := range tm.Neighborhoods {
		fnb := fileNeighborhood{Name: nb.Name}
		for _, s := range nb.Streets {
			fnb.Streets = append(fnb.Streets, fileStreet{Name: s.Name, Node: s.Node})
		}
		fm.Neighborhoods = append(fm.Neighborhoods, fnb)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("marshal town map: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal town map: %w", err)
	}
	return buf.Bytes(), nil
}

// FileRepository serves a town map from a YAML file, or the built-in town
// when Path is empty.
type FileRepository struct {
	Path string
}

func (r FileRepository) LoadTownMap(_ context.Context) (*domain.TownMap, error) {
	return LoadOrDefault(r.Path)
}
