package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/san-kum/ifscloud/internal/pointcloud"
)

const fbxModel = `	Model: 2000000, "Model::AttractorModel", "Mesh" {
		Version: 232
		Properties70:  {
			P: "RotationActive", "bool", "", "",1
			P: "InheritType", "enum", "", "",1
			P: "ScalingMax", "Vector3D", "Vector", "",0,0,0
			P: "DefaultAttributeIndex", "int", "Integer", "",0
		}
		Shading: Y
		Culling: "CullingOff"
	}
}

; Object connections
Connections:  {
	C: "OO",1000000,2000000
}
`

func fbxHeader(title string, t time.Time) string {
	return fmt.Sprintf(`; FBX 7.4.0 project file
; Created by %s
; ----------------------------------------------------

FBXHeaderExtension:  {
	FBXHeaderVersion: 1003
	FBXVersion: 7400
	CreationTimeStamp:  {
		Version: 1000
		Year: %d
		Month: %d
		Day: %d
		Hour: %d
		Minute: %d
		Second: %d
		Millisecond: %d
	}
	Creator: "%s"
}

; Object definitions
Definitions:  {
	Version: 100
	Count: 2
	ObjectType: "Geometry" {
		Count: 1
	}
	ObjectType: "Model" {
		Count: 1
	}
}

; Object properties
Objects:  {
`, title, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond), Generator)
}

// EncodeFBX writes a minimal FBX 7.4 ASCII document with one Geometry
// and one Model. In point mode the polygon index array is empty; in mesh
// mode it holds SimpleMesh triangles with the last index of each polygon
// stored as its bitwise complement.
func EncodeFBX(w io.Writer, c *pointcloud.Cloud, opts Options) (Stats, error) {
	if err := opts.validate(); err != nil {
		return Stats{}, &CodecError{Format: FBX, Index: -1, Err: err}
	}
	hasColors := opts.IncludeColors && c.HasColors()
	cw := newCountingWriter(w)

	var (
		vertices, colors []float32
		faces            []uint32
		name             = "Geometry::AttractorPoints"
		title            = Generator
		scale            = opts.scale()
	)
	if opts.GenerateMesh {
		m := SimpleMesh(c, scale, opts.density())
		vertices, colors, faces = m.Vertices, m.Colors, m.Faces
		name = "Geometry::AttractorMesh"
		title = Generator + " - Mesh Export"
		scale = 1
	} else {
		vertices, colors = c.Positions(), c.Colors()
	}
	if !hasColors {
		colors = nil
	}

	if _, err := cw.WriteString(fbxHeader(title, opts.now())); err != nil {
		return Stats{}, err
	}
	fmt.Fprintf(cw, "\tGeometry: 1000000, %q, \"Mesh\" {\n", name)

	fmt.Fprintf(cw, "\t\tVertices: *%d {\n\t\t\ta: ", len(vertices))
	buf := make([]byte, 0, 64)
	for i, v := range vertices {
		buf = buf[:0]
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, float64(v)*scale, 'f', 6, 64)
		if _, err := cw.Write(buf); err != nil {
			return Stats{}, err
		}
	}
	cw.WriteString("\n\t\t}\n")

	fmt.Fprintf(cw, "\t\tPolygonVertexIndex: *%d {\n\t\t\ta: ", len(faces))
	for i, f := range faces {
		buf = buf[:0]
		if i > 0 {
			buf = append(buf, ',')
		}
		idx := int64(f)
		if i%3 == 2 {
			idx = ^idx
		}
		buf = strconv.AppendInt(buf, idx, 10)
		if _, err := cw.Write(buf); err != nil {
			return Stats{}, err
		}
	}
	cw.WriteString("\n\t\t}\n")
	cw.WriteString("\t\tGeometryVersion: 124\n")

	if colors != nil {
		if err := writeFBXColors(cw, colors); err != nil {
			return Stats{}, err
		}
	}
	cw.WriteString("\t}\n\t\n")

	if _, err := cw.WriteString(fbxModel); err != nil {
		return Stats{}, err
	}
	if err := cw.Flush(); err != nil {
		return Stats{}, err
	}

	return Stats{
		Vertices:  len(vertices) / 3,
		Faces:     len(faces) / 3,
		Bytes:     cw.n,
		HasColors: hasColors,
	}, nil
}

// writeFBXColors emits a per-vertex RGBA layer element and the layer
// that references it.
func writeFBXColors(w *countingWriter, colors []float32) error {
	n := len(colors) / 3
	fmt.Fprintf(w, "\t\tLayerElementColor: 0 {\n\t\t\tVersion: 101\n\t\t\tName: \"\"\n")
	fmt.Fprintf(w, "\t\t\tMappingInformationType: \"ByVertice\"\n\t\t\tReferenceInformationType: \"Direct\"\n")
	fmt.Fprintf(w, "\t\t\tColors: *%d {\n\t\t\t\ta: ", n*4)
	buf := make([]byte, 0, 48)
	for i := 0; i < n; i++ {
		buf = buf[:0]
		if i > 0 {
			buf = append(buf, ',')
		}
		j := i * 3
		for k := 0; k < 3; k++ {
			buf = strconv.AppendFloat(buf, float64(colors[j+k]), 'f', 3, 32)
			buf = append(buf, ',')
		}
		buf = append(buf, '1')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	w.WriteString("\n\t\t\t}\n\t\t}\n")
	w.WriteString("\t\tLayer: 0 {\n\t\t\tVersion: 100\n\t\t\tLayerElement:  {\n")
	_, err := w.WriteString("\t\t\t\tType: \"LayerElementColor\"\n\t\t\t\tTypedIndex: 0\n\t\t\t}\n\t\t}\n")
	return err
}
