package assets

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/tidewater/pkg/math"
)

// ErrNoPositions is returned when a document has no mesh primitive with a
// POSITION attribute.
var ErrNoPositions = errors.New("no mesh positions")

// LoadGridMesh reads the vertex positions of the first mesh primitive in a
// glTF or GLB file. Positions are returned in mesh space, in file order.
func LoadGridMesh(path string) ([]math.Vec3, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return positions(doc)
}

func positions(doc *gltf.Document) ([]math.Vec3, error) {
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			if posIdx < 0 || posIdx >= len(doc.Accessors) {
				return nil, fmt.Errorf("mesh %q: position accessor %d out of range", m.Name, posIdx)
			}

			raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("read positions of mesh %q: %w", m.Name, err)
			}

			out := make([]math.Vec3, len(raw))
			for i, p := range raw {
				out[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
			}
			return out, nil
		}
	}
	return nil, ErrNoPositions
}

// SaveGridMesh writes vertices as a single-mesh GLB. With indices the
// primitive is a triangle list, otherwise a point cloud.
func SaveGridMesh(path string, vertices []math.Vec3, indices []uint32) error {
	if len(vertices) == 0 {
		return ErrNoPositions
	}

	doc := gltf.NewDocument()

	raw := make([][3]float32, len(vertices))
	for i, v := range vertices {
		raw[i] = [3]float32{v.X, v.Y, v.Z}
	}

	prim := &gltf.Primitive{
		Mode:       gltf.PrimitivePoints,
		Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, raw)},
	}
	if len(indices) > 0 {
		prim.Mode = gltf.PrimitiveTriangles
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "water", Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "water", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}
