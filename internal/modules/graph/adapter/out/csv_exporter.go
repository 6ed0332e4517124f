package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"notegraph/internal/modules/graph/domain"
	graphout "notegraph/internal/modules/graph/port/out"
)

// CSVExporter writes headerless, unquoted rows: nodes as
// id,label,cluster,centrality and links as source,target,weight. Labels
// containing commas are written verbatim.
type CSVExporter struct{}

var _ graphout.RecordExporter = CSVExporter{}

func NewCSVExporter() CSVExporter {
	return CSVExporter{}
}

func (CSVExporter) ExportCSV(_ context.Context, record domain.VisualizationRecord, nodesPath, linksPath string) error {
	if err := writeFile(nodesPath, NodeRows(record.Nodes)); err != nil {
		return fmt.Errorf("export nodes: %w", err)
	}
	if err := writeFile(linksPath, LinkRows(record.Links)); err != nil {
		return fmt.Errorf("export links: %w", err)
	}
	return nil
}

func NodeRows(nodes []domain.NodeRecord) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(strings.Join([]string{
			n.ID,
			n.Label,
			strconv.Itoa(n.Cluster),
			strconv.FormatFloat(n.Centrality, 'f', -1, 64),
		}, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func LinkRows(links []domain.LinkRecord) string {
	var b strings.Builder
	for _, l := range links {
		b.WriteString(strings.Join([]string{l.Source, l.Target, strconv.Itoa(l.Weight)}, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
