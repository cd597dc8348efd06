package assets

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var imageFormats = map[string]func([]byte) bool{
	".png":  isPNG,
	".jpg":  isJPEG,
	".jpeg": isJPEG,
	".gif":  isGIF,
	".bmp":  isBMP,
	".svg":  isSVG,
}

var soundFormats = map[string]func([]byte) bool{
	".wav": isWAV,
	".mp3": isMP3,
	".ogg": isOGG,
}

func isPNG(b []byte) bool { return bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")) }

func isJPEG(b []byte) bool { return bytes.HasPrefix(b, []byte{0xFF, 0xD8, 0xFF}) }

func isGIF(b []byte) bool {
	return bytes.HasPrefix(b, []byte("GIF87a")) || bytes.HasPrefix(b, []byte("GIF89a"))
}

func isBMP(b []byte) bool { return bytes.HasPrefix(b, []byte("BM")) }

func isSVG(b []byte) bool { return bytes.Contains(bytes.ToLower(b), []byte("<svg")) }

func isWAV(b []byte) bool {
	return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WAVE"
}

// isMP3 accepts an ID3 tag or an MPEG frame sync.
func isMP3(b []byte) bool {
	return bytes.HasPrefix(b, []byte("ID3")) || len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0
}

func isOGG(b []byte) bool { return bytes.HasPrefix(b, []byte("OggS")) }

// sniff checks the content of a file against the magic of its extension.
func sniff(formats map[string]func([]byte) bool, path string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	valid, ok := formats[ext]
	if !ok {
		return "", rejectf(path, "unsupported format %q, supported are %s", ext, supported(formats))
	}
	if !valid(data) {
		return "", rejectf(path, "content is not a valid %s file", strings.TrimPrefix(ext, "."))
	}
	return ext, nil
}

func supported(formats map[string]func([]byte) bool) string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// wavInfo reads the sample rate and sample count of PCM WAV data.
func wavInfo(data []byte) (rate, samples int, ok bool) {
	if len(data) < 44 || !isWAV(data) {
		return 0, 0, false
	}
	var (
		channels, bits uint16
		fmtFound       bool
	)
	for pos := 12; pos+8 <= len(data); {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return 0, 0, false
			}
			channels = binary.LittleEndian.Uint16(data[body+2:])
			rate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits = binary.LittleEndian.Uint16(data[body+14:])
			fmtFound = true
		case "data":
			if !fmtFound {
				return 0, 0, false
			}
			frame := int(bits/8) * int(channels)
			if frame == 0 {
				return 0, 0, false
			}
			if avail := len(data) - body; size > avail {
				size = avail
			}
			return rate, size / frame, true
		}
		// chunks are padded to an even size
		pos = body + size + size%2
	}
	return 0, 0, false
}

var (
	svgWidth   = regexp.MustCompile(`(?is)<svg[^>]*\swidth\s*=\s*["']?(\d+(?:\.\d+)?)`)
	svgHeight  = regexp.MustCompile(`(?is)<svg[^>]*\sheight\s*=\s*["']?(\d+(?:\.\d+)?)`)
	svgViewBox = regexp.MustCompile(`(?i)viewBox\s*=\s*["']?\s*-?[\d.]+[\s,]+-?[\d.]+[\s,]+([\d.]+)[\s,]+([\d.]+)`)
)

// svgCenter returns the center of an SVG document from its size or view box,
// defaulting to 50, 50.
func svgCenter(data []byte) (x, y float64) {
	if w, h := svgWidth.FindSubmatch(data), svgHeight.FindSubmatch(data); w != nil && h != nil {
		return half(w[1]), half(h[1])
	}
	if m := svgViewBox.FindSubmatch(data); m != nil {
		return half(m[1]), half(m[2])
	}
	return 50, 50
}

func half(b []byte) float64 {
	f, _ := strconv.ParseFloat(string(b), 64)
	return float64(int(f / 2))
}
