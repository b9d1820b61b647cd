package export_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

// twoTriples holds one tight triangle followed by one spread far apart.
func twoTriples() *pointcloud.Cloud {
	c, err := pointcloud.New([]float32{
		0, 0, 0,
		0.1, 0, 0,
		0, 0.1, 0,
		0, 0, 0,
		5, 0, 0,
		0, 5, 0,
	}, []float32{
		1, 0, 0, 1, 0, 0, 1, 0, 0,
		0, 1, 0, 0, 1, 0, 0, 1, 0,
	})
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("SimpleMesh", func() {
	It("accepts only triples with short edges", func() {
		m := export.SimpleMesh(twoTriples(), 1, 1)
		Expect(m.VertexCount()).To(Equal(6))
		Expect(m.Faces).To(Equal([]uint32{0, 1, 2}))
	})

	It("scales the distance threshold with the coordinates", func() {
		m := export.SimpleMesh(twoTriples(), 20, 1)
		Expect(m.FaceCount()).To(Equal(1))
		Expect(m.Vertices[3]).To(BeNumerically("~", 2, 1e-6))
	})

	It("downsamples by density", func() {
		m := export.SimpleMesh(twoTriples(), 1, 0.5)
		Expect(m.VertexCount()).To(Equal(3))
		Expect(m.Vertices).To(Equal([]float32{0, 0, 0, 0, 0.1, 0, 5, 0, 0}))
		Expect(m.Colors).To(HaveLen(9))
	})

	It("keeps a single point for vanishing densities", func() {
		for _, d := range []float64{1e-30, 5e-324} {
			m := export.SimpleMesh(twoTriples(), 1, d)
			Expect(m.VertexCount()).To(Equal(1), "density %g", d)
			Expect(m.Faces).To(BeEmpty())
		}
	})

	It("ignores an incomplete trailing triple", func() {
		c, err := pointcloud.New([]float32{0, 0, 0, 0, 0, 0}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(export.SimpleMesh(c, 1, 1).Faces).To(BeEmpty())
	})
})

var _ = Describe("OBJ", func() {
	It("writes a point list with 1-based point primitives", func() {
		c, err := pointcloud.New([]float32{1, 2, 3, -1, 0.5, 0}, []float32{0.2, 0.4, 0.6, 1, 1, 1})
		Expect(err).NotTo(HaveOccurred())
		var buf bytes.Buffer
		st, err := export.EncodeOBJ(&buf, c, export.DefaultOptions(export.OBJ))
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Vertices).To(Equal(2))
		Expect(st.Bytes).To(BeEquivalentTo(buf.Len()))
		Expect(buf.String()).To(Equal("# OBJ file created by ifscloud\n" +
			"# Vertices: 2\n" +
			"# Format: Point Cloud\n\n" +
			"v 1.000000 2.000000 3.000000 0.200 0.400 0.600\n" +
			"v -1.000000 0.500000 0.000000 1.000 1.000 1.000\n" +
			"\n# Points\n" +
			"p 1\n" +
			"p 2\n"))
	})

	It("writes mesh faces with 1-based indices", func() {
		opts := export.DefaultOptions(export.OBJ)
		opts.GenerateMesh = true
		opts.IncludeColors = false
		var buf bytes.Buffer
		st, err := export.EncodeOBJ(&buf, twoTriples(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Faces).To(Equal(1))
		out := buf.String()
		Expect(out).To(ContainSubstring("# Mesh Export\n# Vertices: 6\n# Faces: 1\n"))
		Expect(out).To(HaveSuffix("\n# Faces\nf 1 2 3\n"))
		Expect(strings.Count(out, "\nv ")).To(Equal(6))
	})

	It("rejects a negative mesh density", func() {
		opts := export.DefaultOptions(export.OBJ)
		opts.GenerateMesh = true
		opts.MeshDensity = -1
		_, err := export.EncodeOBJ(&bytes.Buffer{}, twoTriples(), opts)
		Expect(err).To(MatchError(export.ErrInvalidDensity))
	})
})

var _ = Describe("FBX", func() {
	var opts export.Options

	BeforeEach(func() {
		opts = export.DefaultOptions(export.FBX)
		opts.Now = fixedNow
	})

	It("writes a point geometry with an empty polygon index", func() {
		opts.IncludeColors = false
		var buf bytes.Buffer
		st, err := export.EncodeFBX(&buf, twoTriples(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Vertices).To(Equal(6))
		out := buf.String()
		Expect(out).To(HavePrefix("; FBX 7.4.0 project file\n"))
		Expect(out).To(ContainSubstring("FBXVersion: 7400"))
		Expect(out).To(ContainSubstring("Year: 2024\n\t\tMonth: 3\n\t\tDay: 5\n\t\tHour: 14\n\t\tMinute: 30\n\t\tSecond: 15\n\t\tMillisecond: 250"))
		Expect(out).To(ContainSubstring(`Geometry: 1000000, "Geometry::AttractorPoints", "Mesh" {`))
		Expect(out).To(ContainSubstring("Vertices: *18 {\n\t\t\ta: 0.000000,0.000000,0.000000,0.100000,"))
		Expect(out).To(ContainSubstring("PolygonVertexIndex: *0 {\n\t\t\ta: \n\t\t}"))
		Expect(out).To(ContainSubstring(`C: "OO",1000000,2000000`))
		Expect(out).NotTo(ContainSubstring("LayerElementColor"))
	})

	It("adds a color layer when colors are present", func() {
		var buf bytes.Buffer
		_, err := export.EncodeFBX(&buf, twoTriples(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("Colors: *24 {\n\t\t\t\ta: 1.000,0.000,0.000,1,"))
	})

	It("terminates each polygon with a complemented index", func() {
		opts.GenerateMesh = true
		var buf bytes.Buffer
		st, err := export.EncodeFBX(&buf, twoTriples(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Faces).To(Equal(1))
		out := buf.String()
		Expect(out).To(ContainSubstring("Geometry::AttractorMesh"))
		Expect(out).To(ContainSubstring("PolygonVertexIndex: *3 {\n\t\t\ta: 0,1,-3\n\t\t}"))
	})
})
