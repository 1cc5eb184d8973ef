package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Box encodes one ISO BMFF box with a 32-bit size header.
func Box(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(body)))
	copy(out[4:8], typ)
	return append(out, body...)
}

// FtypBox returns a minimal isom file type box.
func FtypBox() []byte {
	payload := make([]byte, 0, 12)
	payload = append(payload, "isom"...)
	payload = binary.BigEndian.AppendUint32(payload, 512)
	payload = append(payload, "isom"...)
	return Box("ftyp", payload)
}

// MvhdBox builds a movie header of the given version. Only timescale and
// duration carry meaning; the rest are the usual defaults.
func MvhdBox(version byte, timescale uint32, duration uint64) []byte {
	var p []byte
	p = append(p, version, 0, 0, 0)
	if version == 1 {
		p = binary.BigEndian.AppendUint64(p, 0)
		p = binary.BigEndian.AppendUint64(p, 0)
		p = binary.BigEndian.AppendUint32(p, timescale)
		p = binary.BigEndian.AppendUint64(p, duration)
	} else {
		p = binary.BigEndian.AppendUint32(p, 0)
		p = binary.BigEndian.AppendUint32(p, 0)
		p = binary.BigEndian.AppendUint32(p, timescale)
		p = binary.BigEndian.AppendUint32(p, uint32(duration))
	}
	p = binary.BigEndian.AppendUint32(p, 0x00010000) // rate 1.0
	p = binary.BigEndian.AppendUint16(p, 0x0100)     // volume 1.0
	p = append(p, make([]byte, 2+8)...)
	for _, v := range []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		p = binary.BigEndian.AppendUint32(p, v)
	}
	p = append(p, make([]byte, 24)...)
	p = binary.BigEndian.AppendUint32(p, 2)
	return Box("mvhd", p)
}

// MP4Header returns ftyp followed by moov/mvhd with a millisecond timescale.
func MP4Header(durationMS uint64) []byte {
	return append(FtypBox(), Box("moov", MvhdBox(0, 1000, durationMS))...)
}

// WriteBytes writes data to name inside a fresh temp dir and returns the path.
func WriteBytes(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteMP4 writes a header-only MP4 of the given duration.
func WriteMP4(t testing.TB, durationMS uint64) string {
	t.Helper()
	return WriteBytes(t, "video.mp4", MP4Header(durationMS))
}
