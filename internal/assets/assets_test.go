package assets

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/pkg/math"
)

func TestGridMeshRoundTrip(t *testing.T) {
	mesh := water.BuildGridMesh(3, 4, 0.25)
	water.DefaultWaves().Apply(mesh, 0.5)

	tests := []struct {
		name    string
		indices []uint32
	}{
		{"points", nil},
		{"triangles", mesh.Indices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "surface.glb")
			if err := SaveGridMesh(path, mesh.Vertices, tt.indices); err != nil {
				t.Fatalf("SaveGridMesh: %v", err)
			}

			got, err := LoadGridMesh(path)
			if err != nil {
				t.Fatalf("LoadGridMesh: %v", err)
			}
			if len(got) != len(mesh.Vertices) {
				t.Fatalf("loaded %d vertices, want %d", len(got), len(mesh.Vertices))
			}
			for i := range got {
				if got[i] != mesh.Vertices[i] {
					t.Fatalf("vertex %d = %v, want %v", i, got[i], mesh.Vertices[i])
				}
			}

			doc, err := gltf.Open(path)
			if err != nil {
				t.Fatalf("gltf.Open: %v", err)
			}
			wantMode := gltf.PrimitivePoints
			if tt.indices != nil {
				wantMode = gltf.PrimitiveTriangles
			}
			if mode := doc.Meshes[0].Primitives[0].Mode; mode != wantMode {
				t.Errorf("primitive mode = %v, want %v", mode, wantMode)
			}
		})
	}
}

func TestLoadedMeshFeedsHeightGrid(t *testing.T) {
	mesh := water.BuildGridMesh(2, 2, 1)
	path := filepath.Join(t.TempDir(), "pond.glb")
	if err := SaveGridMesh(path, mesh.Vertices, mesh.Indices); err != nil {
		t.Fatalf("SaveGridMesh: %v", err)
	}

	verts, err := LoadGridMesh(path)
	if err != nil {
		t.Fatalf("LoadGridMesh: %v", err)
	}

	g, _ := water.NewHeightGrid(2, 2, 1)
	if err := g.Rebuild(verts, math.Translate(0, 3, 0)); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if h := g.Height(math.Vec3{X: 1.5, Y: 3, Z: 0.5}); h != 3 {
		t.Errorf("Height = %f, want 3", h)
	}

	small, _ := water.NewHeightGrid(1, 1, 1)
	if err := small.Rebuild(verts, math.Identity()); !errors.Is(err, water.ErrVertexCountMismatch) {
		t.Errorf("mismatched grid err = %v, want ErrVertexCountMismatch", err)
	}
}

func TestLoadGridMeshErrors(t *testing.T) {
	if _, err := LoadGridMesh(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected error for missing file")
	}

	if _, err := positions(gltf.NewDocument()); !errors.Is(err, ErrNoPositions) {
		t.Errorf("empty document err = %v, want ErrNoPositions", err)
	}

	if err := SaveGridMesh(filepath.Join(t.TempDir(), "empty.glb"), nil, nil); !errors.Is(err, ErrNoPositions) {
		t.Errorf("empty save err = %v, want ErrNoPositions", err)
	}
}

func TestManagerCachesMeshes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.glb")
	mesh := water.BuildGridMesh(1, 1, 1)
	if err := SaveGridMesh(path, mesh.Vertices, nil); err != nil {
		t.Fatalf("SaveGridMesh: %v", err)
	}

	m := NewManager()
	defer m.Close()

	first, err := m.LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	second, err := m.LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if &first[0] != &second[0] {
		t.Error("second load did not come from cache")
	}

	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 1, 1", hits, misses)
	}

	if _, err := m.LoadMesh(filepath.Join(filepath.Dir(path), "nope.glb")); err == nil {
		t.Error("expected error for missing mesh")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	c.Set("a", []math.Vec3{{X: 1}})

	if _, ok := c.Get("a"); !ok {
		t.Error("expected cache hit")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected cache miss")
	}

	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Clear")
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 1 {
		t.Errorf("stats after clear = %d, %d", hits, misses)
	}
}
