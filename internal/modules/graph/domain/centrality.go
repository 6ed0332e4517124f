package domain

import "context"

// Brandes scores normalized betweenness over unweighted shortest paths.
type Brandes struct{}

func ScoreCentrality(ctx context.Context, g *Graph) (map[string]float64, error) {
	return Brandes{}.Score(ctx, g)
}

func (Brandes) Score(ctx context.Context, g *Graph) (map[string]float64, error) {
	view := g.sorted()
	n := len(view.labels)
	out := make(map[string]float64, n)
	for _, label := range view.labels {
		out[label] = 0
	}
	if n < 3 {
		return out, nil
	}

	cb := make([]float64, n)
	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			sigma[i] = 0
			dist[i] = -1
			delta[i] = 0
			preds[i] = preds[i][:0]
		}
		sigma[s] = 1
		dist[s] = 0
		stack = stack[:0]
		queue = append(queue[:0], s)

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)
			for _, a := range view.adj[v] {
				w := a.to
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	// cb sums ordered pairs; halving gives the undirected score, which is then
	// scaled by 2/((n-1)(n-2)).
	scale := 2 / (float64(n-1) * float64(n-2))
	for i, label := range view.labels {
		out[label] = clamp01(cb[i] / 2 * scale)
	}
	return out, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
