package export_test

import (
	"bytes"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

var _ = Describe("Sniff", func() {
	DescribeTable("detects encoded files by signature",
		func(opts export.Options, want export.Format) {
			var buf bytes.Buffer
			_, err := export.Encode(&buf, threePoints(), opts)
			Expect(err).NotTo(HaveOccurred())

			f, r, err := export.Sniff(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(want))

			// the returned reader replays the sniffed prefix
			var c *pointcloud.Cloud
			if f == export.PLY {
				c, _, err = export.ReadPLY(r)
			} else {
				c, _, err = export.ReadLAS(r)
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Len()).To(Equal(3))
		},
		Entry("ascii ply", export.DefaultOptions(export.PLY), export.PLY),
		Entry("binary ply", export.Options{Format: export.PLY, Encoding: export.Binary, IncludeColors: true, Scale: 1}, export.PLY),
		Entry("las", export.DefaultOptions(export.LAS), export.LAS),
		Entry("laz", export.DefaultOptions(export.LAZ), export.LAS),
	)

	It("rejects text formats it cannot read back", func() {
		var buf bytes.Buffer
		_, err := export.EncodeOBJ(&buf, threePoints(), export.DefaultOptions(export.OBJ))
		Expect(err).NotTo(HaveOccurred())
		_, _, err = export.Sniff(&buf)
		Expect(err).To(MatchError(export.ErrUnknownFormat))
	})

	It("handles short input", func() {
		_, r, err := export.Sniff(bytes.NewReader([]byte("pl")))
		Expect(err).To(MatchError(export.ErrUnknownFormat))
		rest, _ := io.ReadAll(r)
		Expect(string(rest)).To(Equal("pl"))
	})
})
