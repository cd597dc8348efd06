package project

import (
	"archive/zip"
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// ProjectFile is the name of the project document inside an archive.
const ProjectFile = "project.json"

// WriteArchive writes the program as an sb3 archive: project.json followed
// by the resources in name order.
func WriteArchive(w io.Writer, p *Program) error {
	doc, err := Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding project")
	}
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	if err := writeEntry(zw, ProjectFile, doc); err != nil {
		return err
	}
	names := make([]string, 0, len(p.Resources))
	for name := range p.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeEntry(zw, name, p.Resources[name]); err != nil {
			return err
		}
	}
	return errors.Wrap(zw.Close(), "closing archive")
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}
	_, err = f.Write(data)
	return errors.Wrapf(err, "writing %s", name)
}

// ReadArchive reads an sb3 archive. Every entry other than project.json is
// loaded as a resource.
func ReadArchive(r io.ReaderAt, size int64) (*Program, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "invalid archive")
	}
	zr.RegisterDecompressor(zip.Deflate, func(in io.Reader) io.ReadCloser {
		return flate.NewReader(in)
	})
	var (
		p         *Program
		resources = make(map[string][]byte)
	)
	for _, f := range zr.File {
		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		if f.Name == ProjectFile {
			if p, err = Unmarshal(data); err != nil {
				return nil, err
			}
			continue
		}
		resources[f.Name] = data
	}
	if p == nil {
		return nil, errors.Errorf("archive has no %s", ProjectFile)
	}
	p.Resources = resources
	return p, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", f.Name)
	}
	defer rc.Close()
	data, err := ioutil.ReadAll(rc)
	return data, errors.Wrapf(err, "reading %s", f.Name)
}

// Read decodes either an sb3 archive or a bare project.json document.
func Read(data []byte) (*Program, error) {
	if bytes.HasPrefix(data, []byte("PK")) {
		return ReadArchive(bytes.NewReader(data), int64(len(data)))
	}
	return Unmarshal(data)
}

// ReadFile reads an sb3 archive or project.json from disk.
func ReadFile(path string) (*Program, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Read(data)
	return p, errors.Wrapf(err, "reading %s", path)
}

// WriteFile writes the program as an sb3 archive to disk.
func WriteFile(path string, p *Program) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteArchive(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
