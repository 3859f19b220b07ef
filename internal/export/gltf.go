// Package export writes a frame of the simulator as a glTF scene, so any
// glTF viewer or engine can render the assembly.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/SeamusWaldron/cubesim"
	"github.com/SeamusWaldron/cubesim/internal/cube"
)

// CubeletSize is the edge length of an exported sub-cube. With the default
// spacing of 1.1 it leaves a visible gap between neighbours.
const CubeletSize = 1.0

// faceGeometry holds the shared accessors of one face quad.
type faceGeometry struct {
	position int
	normal   int
	indices  int
}

// Scene builds a glTF document for the frame. The root node carries the
// global rotation and scale; each of the 27 children carries its local
// transform and a mesh with one primitive per face, colored by sticker.
func Scene(f cubesim.Frame) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "cubesim"

	materials := writeMaterials(doc)
	faces := writeFaces(doc, CubeletSize/2)

	root := gltf.Node{
		Name:   "cube",
		Matrix: toMatrix(f.Rotation.Mul4(mgl32.Scale3D(f.Scale, f.Scale, f.Scale))),
	}
	for i, pose := range f.Cubes {
		mesh := &gltf.Mesh{Name: fmt.Sprintf("cubelet_%d%d%d", pose.Home.X, pose.Home.Y, pose.Home.Z)}
		for _, face := range cube.Faces {
			g := faces[face]
			mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
				Indices: gltf.Index(g.indices),
				Attributes: gltf.PrimitiveAttributes{
					gltf.POSITION: g.position,
					gltf.NORMAL:   g.normal,
				},
				Material: gltf.Index(materials[pose.Colors[face]]),
			})
		}
		doc.Meshes = append(doc.Meshes, mesh)

		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:   mesh.Name,
			Mesh:   gltf.Index(len(doc.Meshes) - 1),
			Matrix: toMatrix(pose.Transform),
		})
		root.Children = append(root.Children, i)
	}

	doc.Nodes = append(doc.Nodes, &root)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return doc
}

// Write saves the frame to path. A .glb extension selects the binary
// container; .gltf writes JSON with an embedded buffer.
func Write(path string, f cubesim.Frame) error {
	doc := Scene(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		if err := gltf.SaveBinary(doc, path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	case ".gltf":
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
		if err := gltf.Save(doc, path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	default:
		return fmt.Errorf("export %s: extension must be .gltf or .glb", path)
	}
	return nil
}

func writeMaterials(doc *gltf.Document) map[cube.Color]int {
	out := make(map[cube.Color]int)
	for c := cube.Black; c <= cube.Yellow; c++ {
		rgb := c.RGB()
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: colorName(c),
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{float64(rgb[0]), float64(rgb[1]), float64(rgb[2]), 1},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(0.6),
			},
		})
		out[c] = len(doc.Materials) - 1
	}
	return out
}

func colorName(c cube.Color) string {
	switch c {
	case cube.Red:
		return "red"
	case cube.Orange:
		return "orange"
	case cube.Green:
		return "green"
	case cube.White:
		return "white"
	case cube.Blue:
		return "blue"
	case cube.Yellow:
		return "yellow"
	default:
		return "interior"
	}
}

// writeFaces writes one quad per face of a cube with half-extent h. Corners
// wind counter-clockwise seen from outside.
func writeFaces(doc *gltf.Document, h float32) map[cube.Face]faceGeometry {
	out := make(map[cube.Face]faceGeometry)
	for _, face := range cube.Faces {
		n := face.Normal()
		u, v := spanning(face.Axis())
		corners := [4][2]float32{{-h, -h}, {h, -h}, {h, h}, {-h, h}}
		if face.Outer() == 0 {
			corners = [4][2]float32{{-h, -h}, {-h, h}, {h, h}, {h, -h}}
		}

		pos := make([][3]float32, 4)
		nor := make([][3]float32, 4)
		for k, c := range corners {
			p := n.Mul(h).Add(u.Mul(c[0])).Add(v.Mul(c[1]))
			pos[k] = [3]float32{p[0], p[1], p[2]}
			nor[k] = [3]float32{n[0], n[1], n[2]}
		}
		out[face] = faceGeometry{
			position: modeler.WritePosition(doc, pos),
			normal:   modeler.WriteNormal(doc, nor),
			indices:  modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3}),
		}
	}
	return out
}

// spanning returns the two unit vectors spanning a face, ordered so that
// u x v points along +axis.
func spanning(a cube.Axis) (u, v mgl32.Vec3) {
	switch a {
	case cube.AxisX:
		return mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}
	case cube.AxisY:
		return mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}
	default:
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	}
}

func toMatrix(m mgl32.Mat4) [16]float64 {
	var out [16]float64
	for i, v := range m {
		out[i] = float64(v)
	}
	return out
}
