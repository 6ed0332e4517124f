package dto

import "time"

type AnalyzeInput struct {
	Text   string
	Window int
}

type ExportInput struct {
	NoteID    string
	NodesPath string
	LinksPath string
}

type NodeOutput struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Cluster    int     `json:"cluster"`
	Centrality float64 `json:"centrality"`
}

type LinkOutput struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// RecordOutput mirrors the renderer schema.
type RecordOutput struct {
	Nodes []NodeOutput `json:"nodes"`
	Links []LinkOutput `json:"links"`
}

type ViewNode struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Cluster    int     `json:"cluster"`
	Centrality float64 `json:"centrality"`
	Color      string  `json:"color"`
	Size       float64 `json:"size"`
}

type ClusterSummary struct {
	ID    int      `json:"id"`
	Color string   `json:"color"`
	Size  int      `json:"size"`
	Terms []string `json:"terms"`
}

type SummaryOutput struct {
	Nodes      int     `json:"nodes"`
	Links      int     `json:"links"`
	Clusters   int     `json:"clusters"`
	Modularity float64 `json:"modularity"`
}

type GraphOutput struct {
	NoteID   string           `json:"note_id,omitempty"`
	Title    string           `json:"title,omitempty"`
	Record   RecordOutput     `json:"record"`
	View     []ViewNode       `json:"view"`
	Clusters []ClusterSummary `json:"clusters"`
	Summary  SummaryOutput    `json:"summary"`
}

type CacheStatsOutput struct {
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	HitRate        float64 `json:"hit_rate"`
	Computations   int64   `json:"computations"`
	Coalesced      int64   `json:"coalesced"`
	Commits        int64   `json:"commits"`
	DiscardedStale int64   `json:"discarded_stale"`
	Failures       int64   `json:"failures"`
	Evictions      int64   `json:"evictions"`
	Entries        int     `json:"entries"`
}

type RefreshEvent struct {
	NoteID  string
	Nodes   int
	Links   int
	Elapsed time.Duration
	Err     error
}
