package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphdto "notegraph/internal/modules/graph/dto"
)

func run(t *testing.T, vault string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--vault", vault}, args...))
	require.NoError(t, root.Execute(), "notegraph %s", strings.Join(args, " "))
	return out.String()
}

func writeQuietConfig(t *testing.T, vault string) {
	t.Helper()
	dir := filepath.Join(vault, ".notegraph")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: error\n"), 0o644))
}

var createdID = regexp.MustCompile(`note created: (\S+)`)

func TestNoteAndGraphCommands(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	writeQuietConfig(t, vault)

	added := run(t, vault, "note", "add", "--title", "Mascotas",
		"--body", "El gato come pescado. El gato duerme. El perro come carne.")
	m := createdID.FindStringSubmatch(added)
	require.Len(t, m, 2, added)
	id := m[1]

	assert.Contains(t, run(t, vault, "note", "list"), "Mascotas")
	assert.Contains(t, run(t, vault, "note", "reindex"), "1 notes")

	var out graphdto.GraphOutput
	require.NoError(t, json.Unmarshal([]byte(run(t, vault, "graph", "show", "--id", id, "--json")), &out))
	assert.Equal(t, id, out.NoteID)
	assert.NotEmpty(t, out.Record.Nodes)
	assert.Equal(t, len(out.Record.Nodes), out.Summary.Nodes)

	nodes := filepath.Join(vault, "out", "nodes.csv")
	links := filepath.Join(vault, "out", "links.csv")
	run(t, vault, "graph", "export", "--id", id, "--nodes", nodes, "--links", links)
	raw, err := os.ReadFile(nodes)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(raw)), "\n"), len(out.Record.Nodes))

	dot := run(t, vault, "graph", "dot", "--id", id)
	assert.True(t, strings.HasPrefix(dot, "strict graph"), dot)
}

func TestGraphTextCommand(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	writeQuietConfig(t, vault)

	text := run(t, vault, "graph", "text", "--window", "3", "grafo nota grafo cache nota")
	assert.Contains(t, text, "terms=3")
	assert.Contains(t, text, "clusters=")
}

func TestShowRequiresID(t *testing.T) {
	t.Parallel()
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--vault", t.TempDir(), "graph", "show"})
	require.Error(t, root.Execute())
}
