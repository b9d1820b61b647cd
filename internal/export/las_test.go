package export_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

var fixedNow = func() time.Time { return time.Date(2024, time.March, 5, 14, 30, 15, 250e6, time.UTC) }

var _ = Describe("LAS", func() {
	var opts export.Options

	BeforeEach(func() {
		opts = export.DefaultOptions(export.LAS)
		opts.Now = fixedNow
	})

	It("writes header bounds equal to the cloud bounds", func() {
		c := threePoints()
		var buf bytes.Buffer
		st, err := export.EncodeLAS(&buf, c, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Bytes).To(BeEquivalentTo(export.LASHeaderSize + 3*26))
		Expect(buf.Len()).To(Equal(export.LASHeaderSize + 3*26))

		h, err := export.ReadLASHeader(bytes.NewReader(buf.Bytes()))
		Expect(err).NotTo(HaveOccurred())

		box := c.Bounds()
		Expect(h.MinX).To(Equal(box.Min[0]))
		Expect(h.MaxX).To(Equal(box.Max[0]))
		Expect(h.MinY).To(Equal(box.Min[1]))
		Expect(h.MaxY).To(Equal(box.Max[1]))
		Expect(h.MinZ).To(Equal(box.Min[2]))
		Expect(h.MaxZ).To(Equal(box.Max[2]))
		Expect(h.XScale).To(Equal(0.001))
		Expect(h.YScale).To(Equal(0.001))
		Expect(h.ZScale).To(Equal(0.001))
		Expect(h.XOffset).To(BeZero())
	})

	It("fills the fixed header fields", func() {
		var buf bytes.Buffer
		_, err := export.EncodeLAS(&buf, threePoints(), opts)
		Expect(err).NotTo(HaveOccurred())
		raw := buf.Bytes()
		le := binary.LittleEndian

		Expect(string(raw[0:4])).To(Equal("LASF"))
		Expect(raw[24]).To(BeEquivalentTo(1))
		Expect(raw[25]).To(BeEquivalentTo(2))
		Expect(string(bytes.TrimRight(raw[26:58], "\x00"))).To(Equal("ifscloud"))
		Expect(string(bytes.TrimRight(raw[58:90], "\x00"))).To(Equal("ifscloud v1.0"))
		Expect(le.Uint16(raw[90:])).To(BeEquivalentTo(65))
		Expect(le.Uint16(raw[92:])).To(BeEquivalentTo(2024))
		Expect(le.Uint16(raw[94:])).To(BeEquivalentTo(227))
		Expect(le.Uint32(raw[96:])).To(BeEquivalentTo(227))
		Expect(le.Uint32(raw[100:])).To(BeZero())
		Expect(raw[104]).To(BeEquivalentTo(2))
		Expect(le.Uint16(raw[105:])).To(BeEquivalentTo(26))
		Expect(le.Uint32(raw[107:])).To(BeEquivalentTo(3))
		Expect(le.Uint32(raw[111:])).To(BeEquivalentTo(3))
		Expect(math.Float64frombits(le.Uint64(raw[131:]))).To(Equal(0.001))
	})

	It("encodes point records on the millimetre grid", func() {
		c, err := pointcloud.New([]float32{1.234, -5.678, 0.0004}, []float32{1, 0.5, 0})
		Expect(err).NotTo(HaveOccurred())
		var buf bytes.Buffer
		_, err = export.EncodeLAS(&buf, c, opts)
		Expect(err).NotTo(HaveOccurred())

		rec := buf.Bytes()[export.LASHeaderSize:]
		Expect(rec).To(HaveLen(26))
		le := binary.LittleEndian
		Expect(int32(le.Uint32(rec[0:]))).To(BeEquivalentTo(1234))
		Expect(int32(le.Uint32(rec[4:]))).To(BeEquivalentTo(-5678))
		Expect(int32(le.Uint32(rec[8:]))).To(BeZero())
		Expect(le.Uint16(rec[12:])).To(BeZero())
		Expect(rec[14]).To(BeEquivalentTo(1))
		Expect(rec[15:20]).To(Equal([]byte{0, 0, 0, 0, 0}))
		Expect(le.Uint16(rec[20:])).To(BeEquivalentTo(255))
		Expect(le.Uint16(rec[22:])).To(BeEquivalentTo(128))
		Expect(le.Uint16(rec[24:])).To(BeZero())
	})

	It("uses point format 0 without colors", func() {
		opts.IncludeColors = false
		var buf bytes.Buffer
		st, err := export.EncodeLAS(&buf, grid(10), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.HasColors).To(BeFalse())
		Expect(buf.Len()).To(Equal(export.LASHeaderSize + 10*20))

		h, err := export.ReadLASHeader(bytes.NewReader(buf.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		Expect(h.PointFormat).To(BeEquivalentTo(0))
		Expect(h.RecordLength).To(BeEquivalentTo(20))
	})

	It("round-trips through ReadLAS within one quantum", func() {
		src := grid(100)
		opts.Scale = 3
		var buf bytes.Buffer
		_, err := export.EncodeLAS(&buf, src, opts)
		Expect(err).NotTo(HaveOccurred())

		got, h, err := export.ReadLAS(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.PointCount).To(BeEquivalentTo(100))
		for i, v := range src.Positions() {
			Expect(got.Positions()[i]).To(BeNumerically("~", v*3, 0.0006))
		}
		Expect(got.HasColors()).To(BeTrue())
	})

	It("rejects coordinates beyond the int32 grid", func() {
		c, err := pointcloud.New([]float32{0, 0, 0, 3e6, 0, 0}, nil)
		Expect(err).NotTo(HaveOccurred())
		var buf bytes.Buffer
		_, err = export.EncodeLAS(&buf, c, opts)
		Expect(err).To(MatchError(export.ErrCoordinateRange))
		var ce *export.CodecError
		Expect(err).To(BeAssignableToTypeOf(ce))
		Expect(err.(*export.CodecError).Index).To(Equal(1))
		Expect(buf.Len()).To(BeZero())
	})

	It("writes LAZ with the same bytes as LAS", func() {
		c := grid(20)
		var las, laz bytes.Buffer
		_, err := export.EncodeLAS(&las, c, opts)
		Expect(err).NotTo(HaveOccurred())
		_, err = export.EncodeLAZ(&laz, c, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(laz.Bytes()).To(Equal(las.Bytes()))
	})

	It("writes an empty cloud with a bare header", func() {
		var buf bytes.Buffer
		_, err := export.EncodeLAS(&buf, pointcloud.Empty(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.Len()).To(Equal(export.LASHeaderSize))
	})

	It("fails cleanly on a header that promises more points than follow", func() {
		var buf bytes.Buffer
		_, err := export.EncodeLAS(&buf, pointcloud.Empty(), opts)
		Expect(err).NotTo(HaveOccurred())
		raw := buf.Bytes()
		binary.LittleEndian.PutUint32(raw[107:], math.MaxUint32)

		_, _, err = export.ReadLAS(bytes.NewReader(raw))
		Expect(err).To(MatchError(export.ErrMalformed))
	})

	It("rejects a bad signature", func() {
		_, err := export.ReadLASHeader(bytes.NewReader(make([]byte, export.LASHeaderSize)))
		Expect(err).To(MatchError(export.ErrMalformed))
	})
})
