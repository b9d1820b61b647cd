package export

import (
	"bytes"
	"io"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// sniffLen is the prefix filetype needs; ours only look at the first line.
const sniffLen = 262

var (
	plyType = filetype.NewType("ply", "application/ply")
	lasType = filetype.NewType("las", "application/vnd.las")
)

func init() {
	filetype.AddMatcher(plyType, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("ply\n")) || bytes.HasPrefix(buf, []byte("ply\r\n"))
	})
	filetype.AddMatcher(lasType, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("LASF"))
	})
}

// Detect reports the readable format whose signature starts head. LAZ
// files carry the LAS signature and are reported as LAS.
func Detect(head []byte) (Format, bool) {
	kind, err := filetype.Match(head)
	if err != nil {
		return "", false
	}
	return formatOf(kind)
}

func formatOf(kind types.Type) (Format, bool) {
	switch kind {
	case plyType:
		return PLY, true
	case lasType:
		return LAS, true
	}
	return "", false
}

// Sniff peeks at r and returns the detected format along with a reader
// that still yields the full stream.
func Sniff(r io.Reader) (Format, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]
	rest := io.MultiReader(bytes.NewReader(head), r)
	f, ok := Detect(head)
	if !ok {
		return "", rest, ErrUnknownFormat
	}
	return f, rest, nil
}
