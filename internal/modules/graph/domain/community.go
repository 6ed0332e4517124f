package domain

import "sort"

const (
	defaultMaxPasses = 64
	defaultMaxLevels = 16
	gainEpsilon      = 1e-12
)

// Louvain partitions a graph by greedy modularity optimization. Nodes are
// visited in ascending label order and gain ties resolve to the lowest
// community id, so the same graph always yields the same partition.
type Louvain struct {
	MaxPasses int
	MaxLevels int
}

func DetectCommunities(g *Graph) map[string]int {
	return Louvain{}.Detect(g)
}

type levelGraph struct {
	adj    [][]arc
	self   []float64
	degree []float64
	m      float64
}

func (l Louvain) Detect(g *Graph) map[string]int {
	view := g.sorted()
	out := make(map[string]int, len(view.labels))
	if len(view.labels) == 0 {
		return out
	}
	maxPasses, maxLevels := l.MaxPasses, l.MaxLevels
	if maxPasses <= 0 {
		maxPasses = defaultMaxPasses
	}
	if maxLevels <= 0 {
		maxLevels = defaultMaxLevels
	}

	lg := newLevelGraph(view.adj)
	assignment := make([]int, len(view.labels))
	for i := range assignment {
		assignment[i] = i
	}
	if lg.m > 0 {
		q := lg.modularity(assignment)
		for level := 0; level < maxLevels; level++ {
			comm, moved := lg.moveNodes(maxPasses)
			if !moved {
				break
			}
			comm, count := renumber(comm)
			next := lg.modularity(comm)
			if next <= q+gainEpsilon {
				break
			}
			for i := range assignment {
				assignment[i] = comm[assignment[i]]
			}
			lg = lg.aggregate(comm, count)
			q = next
		}
	}

	final, _ := renumber(assignment)
	for i, label := range view.labels {
		out[label] = final[i]
	}
	return out
}

func newLevelGraph(adj [][]arc) *levelGraph {
	lg := &levelGraph{
		adj:    adj,
		self:   make([]float64, len(adj)),
		degree: make([]float64, len(adj)),
	}
	for i, arcs := range adj {
		for _, a := range arcs {
			lg.degree[i] += a.weight
		}
		lg.m += lg.degree[i]
	}
	lg.m /= 2
	return lg
}

func (lg *levelGraph) moveNodes(maxPasses int) ([]int, bool) {
	n := len(lg.adj)
	comm := make([]int, n)
	total := make([]float64, n)
	for i := 0; i < n; i++ {
		comm[i] = i
		total[i] = lg.degree[i]
	}

	moved := false
	links := make(map[int]float64)
	candidates := make([]int, 0)
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for i := 0; i < n; i++ {
			own := comm[i]
			clear(links)
			candidates = candidates[:0]
			for _, a := range lg.adj[i] {
				c := comm[a.to]
				if _, seen := links[c]; !seen {
					candidates = append(candidates, c)
				}
				links[c] += a.weight
			}
			sort.Ints(candidates)

			ki := lg.degree[i]
			total[own] -= ki
			best := own
			bestGain := lg.gain(links[own], total[own], ki)
			for _, c := range candidates {
				if c == own {
					continue
				}
				if gain := lg.gain(links[c], total[c], ki); gain > bestGain+gainEpsilon {
					best, bestGain = c, gain
				}
			}
			total[best] += ki
			if best != own {
				comm[i] = best
				changed = true
				moved = true
			}
		}
		if !changed {
			break
		}
	}
	return comm, moved
}

// gain is the modularity change, up to a per-node constant, of inserting an
// isolated node with degree ki into a community with total degree tot that it
// reaches through kin weight.
func (lg *levelGraph) gain(kin, tot, ki float64) float64 {
	return kin/lg.m - tot*ki/(2*lg.m*lg.m)
}

func (lg *levelGraph) modularity(comm []int) float64 {
	if lg.m == 0 {
		return 0
	}
	internal := make(map[int]float64)
	degree := make(map[int]float64)
	for i, arcs := range lg.adj {
		c := comm[i]
		degree[c] += lg.degree[i]
		internal[c] += lg.self[i]
		for _, a := range arcs {
			if a.to > i && comm[a.to] == c {
				internal[c] += a.weight
			}
		}
	}
	return modularityOf(internal, degree, lg.m)
}

func (lg *levelGraph) aggregate(comm []int, count int) *levelGraph {
	next := &levelGraph{
		adj:    make([][]arc, count),
		self:   make([]float64, count),
		degree: make([]float64, count),
		m:      lg.m,
	}
	weights := make(map[edgeKey]float64)
	for i, arcs := range lg.adj {
		ci := comm[i]
		next.degree[ci] += lg.degree[i]
		next.self[ci] += lg.self[i]
		for _, a := range arcs {
			if a.to < i {
				continue
			}
			cj := comm[a.to]
			if ci == cj {
				next.self[ci] += a.weight
				continue
			}
			weights[keyOf(ci, cj)] += a.weight
		}
	}
	for key, w := range weights {
		next.adj[key.lo] = append(next.adj[key.lo], arc{to: key.hi, weight: w})
		next.adj[key.hi] = append(next.adj[key.hi], arc{to: key.lo, weight: w})
	}
	for i := range next.adj {
		sort.Slice(next.adj[i], func(a, b int) bool { return next.adj[i][a].to < next.adj[i][b].to })
	}
	return next
}

// renumber maps community ids to 0..k-1 in order of each community's lowest
// member index.
func renumber(comm []int) ([]int, int) {
	ids := make(map[int]int)
	out := make([]int, len(comm))
	for i, c := range comm {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		out[i] = id
	}
	return out, len(ids)
}

// Modularity returns Q = Σ_c [L_c/m - (d_c/2m)²] for partition over g, where
// L_c is the edge weight inside c and d_c the summed degree of c. Nodes
// missing from partition are treated as singletons.
func Modularity(g *Graph, partition map[string]int) float64 {
	view := g.sorted()
	comm := make([]int, len(view.labels))
	next := -1
	for i, label := range view.labels {
		if c, ok := partition[label]; ok {
			comm[i] = c
			continue
		}
		comm[i] = next
		next--
	}
	return newLevelGraph(view.adj).modularity(comm)
}

func modularityOf(internal, degree map[int]float64, m float64) float64 {
	keys := make([]int, 0, len(degree))
	for c := range degree {
		keys = append(keys, c)
	}
	sort.Ints(keys)
	q := 0.0
	for _, c := range keys {
		share := degree[c] / (2 * m)
		q += internal[c]/m - share*share
	}
	return q
}
