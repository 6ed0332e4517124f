package domain

// Palette holds the cluster colors, indexed by cluster id modulo its length.
var Palette = [...]string{
	"#f5e0dc", "#f2cdcd", "#f5c2e7", "#cba6f7", "#f38ba8",
	"#eba0ac", "#fab387", "#f9e2af", "#a6e3a1", "#94e2d5",
	"#89dceb", "#74c7ec", "#89b4fa", "#b4befe", "#bac2de",
}

const (
	MinNodeSize   = 5.0
	NodeSizeRange = 20.0
)

func ColorFor(cluster int) string {
	idx := cluster % len(Palette)
	if idx < 0 {
		idx += len(Palette)
	}
	return Palette[idx]
}

func SizeFor(centrality float64) float64 {
	return MinNodeSize + NodeSizeRange*clamp01(centrality)
}
