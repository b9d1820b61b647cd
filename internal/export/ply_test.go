package export_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

func threePoints() *pointcloud.Cloud {
	c, err := pointcloud.New(
		[]float32{0, 0, 0, 1.5, -2.25, 3.125, -0.000001, 100, 42.424242},
		[]float32{1, 0, 0, 0, 1, 0, 0.2, 0.4, 0.6},
	)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func grid(n int) *pointcloud.Cloud {
	pos := make([]float32, 0, n*3)
	col := make([]float32, 0, n*3)
	for i := 0; i < n; i++ {
		f := float32(i)
		pos = append(pos, f*0.01, -f*0.02, f*0.005)
		col = append(col, float32(i%2), 0.5, 1)
	}
	c, err := pointcloud.New(pos, col)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("PLY", func() {
	It("round-trips ascii positions and colors", func() {
		src := threePoints()
		var buf bytes.Buffer
		st, err := export.EncodePLY(&buf, src, export.DefaultOptions(export.PLY))
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Vertices).To(Equal(3))
		Expect(st.Bytes).To(BeEquivalentTo(buf.Len()))

		got, info, err := export.ReadPLY(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Encoding).To(Equal(export.ASCII))
		Expect(info.HasColors).To(BeTrue())
		Expect(info.Comments).To(ContainElement("Generated by ifscloud"))
		Expect(got.Len()).To(Equal(3))

		for i, v := range src.Positions() {
			Expect(got.Positions()[i]).To(BeNumerically("~", v, 1e-6))
		}
		want := []float32{255, 0, 0, 0, 255, 0, 51, 102, 153}
		for i, v := range got.Colors() {
			Expect(v * 255).To(BeNumerically("~", want[i], 1e-3))
		}
	})

	It("writes the header in the documented order", func() {
		var buf bytes.Buffer
		_, err := export.EncodePLY(&buf, threePoints(), export.DefaultOptions(export.PLY))
		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(buf.String(), "\n")
		Expect(lines[:11]).To(Equal([]string{
			"ply",
			"format ascii 1.0",
			"comment Generated by ifscloud",
			"element vertex 3",
			"property float x",
			"property float y",
			"property float z",
			"property uchar red",
			"property uchar green",
			"property uchar blue",
			"end_header",
		}))
		Expect(lines[11]).To(Equal("0.000000 0.000000 0.000000 255 0 0"))
		Expect(lines[12]).To(Equal("1.500000 -2.250000 3.125000 0 255 0"))
	})

	It("sizes binary output exactly", func() {
		c := grid(1000)
		opts := export.DefaultOptions(export.PLY)
		opts.Encoding = export.Binary

		var buf bytes.Buffer
		st, err := export.EncodePLY(&buf, c, opts)
		Expect(err).NotTo(HaveOccurred())
		header := export.PLYHeader(1000, export.Binary, true)
		Expect(buf.Len()).To(Equal(len(header) + 1000*15))
		Expect(st.Bytes).To(BeEquivalentTo(buf.Len()))

		opts.IncludeColors = false
		buf.Reset()
		_, err = export.EncodePLY(&buf, c, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.Len()).To(Equal(len(export.PLYHeader(1000, export.Binary, false)) + 1000*12))
	})

	It("round-trips binary output", func() {
		src := grid(50)
		opts := export.DefaultOptions(export.PLY)
		opts.Encoding = export.Binary
		opts.Scale = 2

		var buf bytes.Buffer
		_, err := export.EncodePLY(&buf, src, opts)
		Expect(err).NotTo(HaveOccurred())

		got, info, err := export.ReadPLY(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Encoding).To(Equal(export.Binary))
		for i, v := range src.Positions() {
			Expect(got.Positions()[i]).To(Equal(v * 2))
		}
	})

	It("clamps and rounds color channels", func() {
		c, err := pointcloud.New([]float32{0, 0, 0}, []float32{-0.5, 1.7, 0.5})
		Expect(err).NotTo(HaveOccurred())
		var buf bytes.Buffer
		_, err = export.EncodePLY(&buf, c, export.DefaultOptions(export.PLY))
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(HaveSuffix("0.000000 0.000000 0.000000 0 255 128\n"))
	})

	It("omits colors for an uncolored cloud", func() {
		c, err := pointcloud.New([]float32{1, 2, 3}, nil)
		Expect(err).NotTo(HaveOccurred())
		var buf bytes.Buffer
		st, err := export.EncodePLY(&buf, c, export.DefaultOptions(export.PLY))
		Expect(err).NotTo(HaveOccurred())
		Expect(st.HasColors).To(BeFalse())
		Expect(buf.String()).NotTo(ContainSubstring("uchar"))
	})

	It("rejects malformed input", func() {
		_, _, err := export.ReadPLY(strings.NewReader("not a ply\n"))
		Expect(err).To(MatchError(export.ErrMalformed))

		_, _, err = export.ReadPLY(strings.NewReader("ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nend_header\n1\n"))
		Expect(err).To(MatchError(export.ErrMalformed))
	})

	It("rejects a vertex count too large to address", func() {
		in := "ply\nformat ascii 1.0\nelement vertex 4000000000000000000\n" +
			"property float x\nproperty float y\nproperty float z\nend_header\n1 2 3\n"
		var err error
		Expect(func() { _, _, err = export.ReadPLY(strings.NewReader(in)) }).NotTo(Panic())
		Expect(err).To(MatchError(export.ErrMalformed))
	})

	It("fails cleanly when the body holds fewer vertices than declared", func() {
		in := "ply\nformat ascii 1.0\nelement vertex 1000000000\n" +
			"property float x\nproperty float y\nproperty float z\nend_header\n1 2 3\n"
		_, _, err := export.ReadPLY(strings.NewReader(in))
		Expect(err).To(MatchError(export.ErrMalformed))
	})

	It("rejects an unknown encoding", func() {
		opts := export.DefaultOptions(export.PLY)
		opts.Encoding = "binary_big_endian"
		_, err := export.EncodePLY(&bytes.Buffer{}, threePoints(), opts)
		Expect(err).To(MatchError(export.ErrUnknownEncoding))
	})
})
