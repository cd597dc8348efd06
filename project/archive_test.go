package project

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundTrip(t *testing.T) {
	p := buildSample(t)
	p.Resources["extra.wav"] = []byte("RIFF")

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, p))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)
	assert.Equal(t, ProjectFile, zr.File[0].Name)
	assert.Len(t, zr.File, len(p.Resources)+1)

	got, err := Read(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, p.Resources, got.Resources)
	require.Len(t, got.Targets, 2)
	assert.Equal(t, "Cat", got.Targets[1].Name)
}

func TestReadBareDocument(t *testing.T) {
	data, err := Marshal(buildSample(t))
	require.NoError(t, err)
	p, err := Read(data)
	require.NoError(t, err)
	assert.Empty(t, p.Resources)
	assert.NotNil(t, p.Stage())
}

func TestArchiveWithoutProject(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("a.svg")
	require.NoError(t, err)
	_, err = w.Write([]byte("<svg/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Read(buf.Bytes())
	assert.EqualError(t, err, "archive has no project.json")
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sb3")
	require.NoError(t, WriteFile(path, buildSample(t)))
	p, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Sprites(), 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.sb3"))
	assert.Error(t, err)
}
