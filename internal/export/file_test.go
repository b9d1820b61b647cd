package export_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/ifs"
)

func fern() []ifs.Transform {
	return []ifs.Transform{
		ifs.Scale(0.5).WithWeight(1).WithColor(ifs.MustParseColor("#e74c3c")),
		ifs.Scale(0.5).Translate(0.5, 0, 0).WithWeight(1).WithColor(ifs.MustParseColor("#3498db")),
		ifs.Scale(0.5).Translate(0.25, 0.433, 0).WithWeight(2).WithColor(ifs.MustParseColor("#2ecc71")),
	}
}

var _ = Describe("ExportFile", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("writes the file and reports its size", func() {
		path := filepath.Join(dir, "cloud.ply")
		r := export.ExportFile(path, threePoints(), export.DefaultOptions(export.PLY))
		Expect(r.Success).To(BeTrue(), r.Error)
		Expect(r.Filename).To(Equal(path))
		Expect(r.VertexCount).To(Equal(3))
		Expect(r.HasColors).To(BeTrue())

		fi, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(fi.Size()).To(Equal(r.FileSize))
	})

	It("leaves the file readable by others", func() {
		path := filepath.Join(dir, "cloud.las")
		r := export.ExportFile(path, threePoints(), export.DefaultOptions(export.LAS))
		Expect(r.Success).To(BeTrue(), r.Error)

		fi, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(fi.Mode().Perm()).To(Equal(os.FileMode(0644)))
	})

	It("uses the default filename inside a directory", func() {
		opts := export.DefaultOptions(export.LAS)
		opts.Now = fixedNow
		r := export.ExportFile(dir, threePoints(), opts)
		Expect(r.Success).To(BeTrue(), r.Error)
		Expect(filepath.Base(r.Filename)).To(Equal(export.DefaultFilename(export.LAS, fixedNow())))
		Expect(filepath.Base(r.Filename)).To(HavePrefix("fractal-"))
	})

	It("mentions the missing compression for LAZ", func() {
		r := export.ExportFile(filepath.Join(dir, "x.laz"), threePoints(), export.DefaultOptions(export.LAZ))
		Expect(r.Success).To(BeTrue())
		Expect(r.Message).To(ContainSubstring("not implemented"))
	})

	It("returns a failure result and leaves nothing behind", func() {
		path := filepath.Join(dir, "bad.ply")
		opts := export.DefaultOptions(export.PLY)
		opts.Scale = -1
		r := export.ExportFile(path, threePoints(), opts)
		Expect(r.Success).To(BeFalse())
		Expect(r.Error).To(ContainSubstring("scale"))
		Expect(r.Message).To(HavePrefix("Export failed: "))

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("rejects unknown formats", func() {
		r := export.ExportFile(filepath.Join(dir, "a.xyz"), threePoints(), export.Options{Format: "xyz"})
		Expect(r.Success).To(BeFalse())
		Expect(r.Error).To(ContainSubstring("unknown format"))
	})
})

var _ = Describe("ExportAll", func() {
	It("writes one file per format", func() {
		dir := GinkgoT().TempDir()
		formats := []export.Format{export.PLY, export.LAS, export.LAZ, export.OBJ, export.FBX}
		results, err := export.ExportAll(context.Background(), dir, "cloud", grid(200), formats, export.DefaultOptions(""), 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(5))
		for i, r := range results {
			Expect(r.Success).To(BeTrue(), r.Error)
			Expect(r.Format).To(Equal(formats[i]))
			Expect(r.Filename).To(HaveSuffix("." + string(formats[i])))
			Expect(r.VertexCount).To(Equal(200))
		}
	})
})

var _ = Describe("ExportHighDensity", func() {
	It("generates and writes a bulk cloud", func() {
		dir := GinkgoT().TempDir()
		opts := export.HighDensityOptions{
			Options: export.DefaultOptions(export.PLY),
			Points:  5000,
			Dir:     dir,
		}
		opts.Encoding = export.Binary
		opts.Now = fixedNow

		r := export.ExportHighDensity(context.Background(), chaos.NewSeeded(7), fern(), opts)
		Expect(r.Success).To(BeTrue(), r.Error)
		Expect(r.VertexCount).To(Equal(5000))
		Expect(filepath.Base(r.Filename)).To(HavePrefix("ifs-5K-points-"))
		Expect(r.FileSize).To(BeEquivalentTo(len(export.PLYHeader(5000, export.Binary, true)) + 5000*15))
	})

	It("refuses formats without a bulk path", func() {
		r := export.ExportHighDensity(context.Background(), chaos.NewSeeded(1), fern(), export.HighDensityOptions{Options: export.DefaultOptions(export.OBJ)})
		Expect(r.Success).To(BeFalse())
	})

	It("fails without enabled transforms", func() {
		r := export.ExportHighDensity(context.Background(), chaos.NewSeeded(1), nil, export.HighDensityOptions{Options: export.DefaultOptions(export.LAS)})
		Expect(r.Success).To(BeFalse())
		Expect(r.Error).To(ContainSubstring("no enabled"))
	})

	It("reports cancellation without writing", func() {
		dir := GinkgoT().TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := export.ExportHighDensity(ctx, chaos.NewSeeded(1), fern(), export.HighDensityOptions{
			Options: export.DefaultOptions(export.LAS),
			Points:  100000,
			Dir:     dir,
		})
		Expect(r.Success).To(BeFalse())
		Expect(strings.ToLower(r.Error)).To(ContainSubstring("cancel"))
		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})
})
