package exif2tree

import (
	"bytes"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

const (
	tagMake     = 0x010F
	tagDateTime = 0x0132
)

// rawBytes returns a little-endian TIFF with a single ASCII tag in IFD0, which is
// all a CR2 needs to look like for the standard IFD decoder.
func rawBytes(tag uint16, val string) []byte {
	v := append([]byte(val), 0)

	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("II")
	binary.Write(&b, le, uint16(42))
	binary.Write(&b, le, uint32(8)) // IFD0
	binary.Write(&b, le, uint16(1)) // entries
	binary.Write(&b, le, tag)       // tag
	binary.Write(&b, le, uint16(2)) // ASCII
	binary.Write(&b, le, uint32(len(v)))
	binary.Write(&b, le, uint32(26)) // value offset, right after the IFD
	binary.Write(&b, le, uint32(0))  // no next IFD
	b.Write(v)
	return b.Bytes()
}

// writeRaw writes a fake raw file taken at dt to dir/rel.
func writeRaw(t *testing.T, dir string, rel string, dt string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, rawBytes(tagDateTime, dt), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

// snapshot lists every file and directory under dir, relative to it.
func snapshot(t *testing.T, dir string) []string {
	t.Helper()
	var got []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			rel += "/"
		}
		got = append(got, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	sort.Strings(got)
	return got
}
