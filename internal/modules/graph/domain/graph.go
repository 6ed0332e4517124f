package domain

import "sort"

// MinWindow pairs each token with its immediate successor only.
const MinWindow = 2

type Edge struct {
	Source string
	Target string
	Weight int
}

type edgeKey struct{ lo, hi int }

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// Graph is an undirected co-occurrence graph. Labels are interned to dense
// indices in first-appearance order. A Graph is never modified after Build.
type Graph struct {
	labels []string
	index  map[string]int
	edges  []Edge
	byKey  map[edgeKey]int
}

// Build pairs position i with every j where i < j < i+window. Pairs of equal
// tokens are skipped; repeated pairs accumulate weight on one edge.
func Build(tokens []string, window int) *Graph {
	if window < MinWindow {
		window = MinWindow
	}
	g := &Graph{
		index: make(map[string]int),
		byKey: make(map[edgeKey]int),
	}
	for _, token := range tokens {
		g.intern(token)
	}
	for i := range tokens {
		for j := i + 1; j < i+window && j < len(tokens); j++ {
			if tokens[i] == tokens[j] {
				continue
			}
			g.addWeight(tokens[i], tokens[j], 1)
		}
	}
	return g
}

// NewGraph assembles a graph from explicit edges. Self-loops are dropped and
// repeated pairs accumulate weight; labels not named by any edge become
// isolated nodes.
func NewGraph(labels []string, edges []Edge) *Graph {
	g := &Graph{
		index: make(map[string]int),
		byKey: make(map[edgeKey]int),
	}
	for _, label := range labels {
		g.intern(label)
	}
	for _, e := range edges {
		g.intern(e.Source)
		g.intern(e.Target)
		if e.Source == e.Target || e.Weight <= 0 {
			continue
		}
		g.addWeight(e.Source, e.Target, e.Weight)
	}
	return g
}

func (g *Graph) intern(label string) int {
	if idx, ok := g.index[label]; ok {
		return idx
	}
	idx := len(g.labels)
	g.labels = append(g.labels, label)
	g.index[label] = idx
	return idx
}

func (g *Graph) addWeight(source, target string, w int) {
	key := keyOf(g.index[source], g.index[target])
	if pos, ok := g.byKey[key]; ok {
		g.edges[pos].Weight += w
		return
	}
	g.byKey[key] = len(g.edges)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Weight: w})
}

func (g *Graph) NodeCount() int { return len(g.labels) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns labels in first-appearance order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.labels...)
}

// Edges returns edges in first-observation order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

func (g *Graph) HasNode(label string) bool {
	_, ok := g.index[label]
	return ok
}

// Weight returns the co-occurrence count between u and v, 0 when unlinked.
func (g *Graph) Weight(u, v string) int {
	ui, ok := g.index[u]
	if !ok {
		return 0
	}
	vi, ok := g.index[v]
	if !ok {
		return 0
	}
	pos, ok := g.byKey[keyOf(ui, vi)]
	if !ok {
		return 0
	}
	return g.edges[pos].Weight
}

type arc struct {
	to     int
	weight float64
}

// sortedView re-indexes the graph by ascending label so that every algorithm
// visits nodes and neighbours in the same order on every run.
type sortedView struct {
	labels []string
	adj    [][]arc
}

func (g *Graph) sorted() sortedView {
	labels := append([]string(nil), g.labels...)
	sort.Strings(labels)
	pos := make(map[string]int, len(labels))
	for i, label := range labels {
		pos[label] = i
	}
	adj := make([][]arc, len(labels))
	for _, e := range g.edges {
		u, v := pos[e.Source], pos[e.Target]
		w := float64(e.Weight)
		adj[u] = append(adj[u], arc{to: v, weight: w})
		adj[v] = append(adj[v], arc{to: u, weight: w})
	}
	for i := range adj {
		sort.Slice(adj[i], func(a, b int) bool { return adj[i][a].to < adj[i][b].to })
	}
	return sortedView{labels: labels, adj: adj}
}
