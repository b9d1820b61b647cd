package export_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ifscloud/internal/export"
)

var _ = Describe("Estimate", func() {
	DescribeTable("per-format budgets",
		func(opts export.Options, colors bool, want int64) {
			got, err := export.Estimate(opts, 1000, colors)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("ply ascii colors", export.Options{Format: export.PLY, IncludeColors: true}, true, int64(150+33000)),
		Entry("ply ascii plain", export.Options{Format: export.PLY, IncludeColors: true}, false, int64(150+25000)),
		Entry("ply binary colors", export.Options{Format: export.PLY, Encoding: export.Binary, IncludeColors: true}, true, int64(150+15000)),
		Entry("ply binary colors off", export.Options{Format: export.PLY, Encoding: export.Binary}, true, int64(150+12000)),
		Entry("las rgb", export.Options{Format: export.LAS, IncludeColors: true}, true, int64(227+26000)),
		Entry("las xyz", export.Options{Format: export.LAS}, true, int64(227+20000)),
		Entry("laz rgb", export.Options{Format: export.LAZ, IncludeColors: true}, true, int64((227+26000+6)/7)),
		Entry("obj points", export.Options{Format: export.OBJ, IncludeColors: true}, true, int64(100+49500)),
		Entry("obj mesh", export.Options{Format: export.OBJ, GenerateMesh: true}, false, int64(100+45000)),
		Entry("fbx points", export.Options{Format: export.FBX}, false, int64(500+30000)),
		Entry("fbx mesh", export.Options{Format: export.FBX, GenerateMesh: true}, false, int64(500+50000)),
	)

	It("matches binary PLY and LAS output exactly apart from the PLY header", func() {
		c := grid(1000)
		opts := export.DefaultOptions(export.LAS)
		var buf bytes.Buffer
		_, err := export.EncodeLAS(&buf, c, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(int64(buf.Len())).To(Equal(export.EstimateLASSize(1000, true, false)))

		opts = export.DefaultOptions(export.PLY)
		opts.Encoding = export.Binary
		buf.Reset()
		_, err = export.EncodePLY(&buf, c, opts)
		Expect(err).NotTo(HaveOccurred())
		header := int64(len(export.PLYHeader(1000, export.Binary, true)))
		Expect(int64(buf.Len()) - header).To(Equal(export.EstimatePLYSize(1000, export.Binary, true) - 150))
	})

	It("rejects unknown formats", func() {
		_, err := export.Estimate(export.Options{Format: "xyz"}, 10, false)
		Expect(err).To(MatchError(export.ErrUnknownFormat))
	})
})
