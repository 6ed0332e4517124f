package slug_test

import (
	"testing"

	"notegraph/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Graph Notes":          "graph-notes",
		"  Canción del Niño  ": "cancion-del-nino",
		"¿Qué pasó?":           "que-paso",
		"***":                  "untitled",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("slug %q: got %q want %q", in, got, want)
		}
	}
}
