// Package assets loads the images and sounds declared by a program and turns
// them into project costumes and sounds.
package assets

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scratchlang/slc/project"
)

// Asset is a loaded image or sound. Its ID is the md5 of Data.
type Asset struct {
	ID       string
	Name     string
	Filename string
	// Format is the stored data format: svg or png for images, the file
	// extension for sounds.
	Format string

	RotationCenterX  float64
	RotationCenterY  float64
	BitmapResolution int

	Rate        int
	SampleCount int

	Data []byte
}

func newAsset(path, format string, data []byte) *Asset {
	sum := md5.Sum(data)
	id := hex.EncodeToString(sum[:])
	base := filepath.Base(path)
	return &Asset{
		ID:       id,
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		Filename: id + "." + format,
		Format:   format,
		Data:     data,
	}
}

// Costume returns the costume entry of an image asset.
func (a *Asset) Costume(name string) project.Costume {
	if name == "" {
		name = a.Name
	}
	return project.Costume{
		AssetID:          a.ID,
		Name:             name,
		BitmapResolution: a.BitmapResolution,
		MD5Ext:           a.Filename,
		DataFormat:       a.Format,
		RotationCenterX:  a.RotationCenterX,
		RotationCenterY:  a.RotationCenterY,
	}
}

// Sound returns the sound entry of a sound asset.
func (a *Asset) Sound() project.Sound {
	return project.Sound{
		AssetID:     a.ID,
		Name:        a.Name,
		DataFormat:  a.Format,
		Rate:        a.Rate,
		SampleCount: a.SampleCount,
		MD5Ext:      a.Filename,
	}
}

// Error is a rejected asset file.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("asset %s: %s", e.Path, e.Reason)
}

func rejectf(path, format string, args ...interface{}) *Error {
	return &Error{Path: path, Reason: fmt.Sprintf(format, args...)}
}
