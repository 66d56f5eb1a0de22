package fonts

import (
	"testing"

	"github.com/javanhut/RavenPanel/render"
)

func TestResolve(t *testing.T) {
	if f := Resolve("GoMono"); f.Name != "gomono" {
		t.Fatalf("expected gomono, got %q", f.Name)
	}
	if f := Resolve("missing"); f.Name != Default().Name {
		t.Fatalf("unknown font should fall back to default, got %q", f.Name)
	}
}

func TestFacesLoad(t *testing.T) {
	for _, f := range AvailableFonts() {
		for _, data := range [][]byte{f.Data, f.Bold} {
			m, err := render.LoadMetrics(data, 15)
			if err != nil {
				t.Fatalf("%s: %v", f.Name, err)
			}
			if !m.Valid() {
				t.Fatalf("%s: invalid metrics %+v", f.Name, m)
			}
		}
	}
}
