package assets

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type Diagnostic interface {
	AssetLoaded(kind, path, format string, size int)
	CostumeScaled(path string, width, height, scaledWidth, scaledHeight int)
}

// Manager loads asset files.
type Manager struct {
	c    Config
	diag Diagnostic
}

func NewManager(c Config, d Diagnostic) *Manager {
	if d == nil {
		d = nopDiagnostic{}
	}
	return &Manager{c: c, diag: d}
}

// AddImage loads a costume or backdrop image. SVG documents are kept as is,
// bitmaps are converted to PNG and optionally scaled down.
func (m *Manager) AddImage(path string) (*Asset, error) {
	data, err := m.read(path, m.c.MaxImageBytes)
	if err != nil {
		return nil, err
	}
	ext, err := sniff(imageFormats, path, data)
	if err != nil {
		return nil, err
	}

	var a *Asset
	if ext == ".svg" {
		a = newAsset(path, "svg", data)
		a.RotationCenterX, a.RotationCenterY = svgCenter(data)
	} else {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, rejectf(path, "decoding image: %v", err)
		}
		img = m.scale(path, img)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.Wrapf(err, "encoding %s", path)
		}
		a = newAsset(path, "png", buf.Bytes())
		size := img.Bounds().Size()
		a.RotationCenterX = float64(size.X / 2)
		a.RotationCenterY = float64(size.Y / 2)
		a.BitmapResolution = 1
	}
	m.diag.AssetLoaded("image", path, a.Format, len(a.Data))
	return a, nil
}

// scale fits the image into the configured costume size when auto scaling
// is enabled.
func (m *Manager) scale(path string, img image.Image) image.Image {
	size := img.Bounds().Size()
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if !m.c.AutoScale || longest <= m.c.MaxCostumeSize {
		return img
	}
	ratio := float64(m.c.MaxCostumeSize) / float64(longest)
	w, h := int(float64(size.X)*ratio), int(float64(size.Y)*ratio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	m.diag.CostumeScaled(path, size.X, size.Y, w, h)
	return dst
}

// AddSound loads a sound. The rate and sample count are read from WAV
// headers; other formats get the default rate.
func (m *Manager) AddSound(path string) (*Asset, error) {
	data, err := m.read(path, m.c.MaxSoundBytes)
	if err != nil {
		return nil, err
	}
	ext, err := sniff(soundFormats, path, data)
	if err != nil {
		return nil, err
	}
	a := newAsset(path, ext[1:], data)
	a.Rate = 48000
	if rate, samples, ok := wavInfo(data); ok {
		a.Rate, a.SampleCount = rate, samples
	}
	m.diag.AssetLoaded("sound", path, a.Format, len(a.Data))
	return a, nil
}

func (m *Manager) read(path string, max int64) ([]byte, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, rejectf(path, "file does not exist")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if fi.IsDir() {
		return nil, rejectf(path, "is a directory")
	}
	if fi.Size() > max {
		return nil, rejectf(path, "file is too large: %s, at most %s are allowed",
			humanize.Bytes(uint64(fi.Size())), humanize.Bytes(uint64(max)))
	}
	data, err := ioutil.ReadFile(path)
	return data, errors.Wrapf(err, "reading %s", path)
}

type nopDiagnostic struct{}

func (nopDiagnostic) AssetLoaded(string, string, string, int) {}

func (nopDiagnostic) CostumeScaled(string, int, int, int, int) {}
