package buildcache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
	"github.com/scratchlang/slc/services/storage"
)

const entryVersion = 1

// Entry is one cached build: the archive compiled from a source along with
// the digests of the asset files it read.
type Entry struct {
	Key     string    `json:"key"`
	Source  string    `json:"source"`
	Created time.Time `json:"created"`
	Files   []File    `json:"files"`
	Archive []byte    `json:"archive"`
}

// File is the digest of an asset file at the time of the build. A missing
// file has an empty digest.
type File struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

func (e *Entry) ObjectID() string {
	return e.Key
}

func (e *Entry) MarshalBinary() ([]byte, error) {
	return storage.VersionJSONEncode(entryVersion, e)
}

func (e *Entry) UnmarshalBinary(data []byte) error {
	return storage.VersionJSONDecode(data, func(version int, dec *json.Decoder) error {
		if version != entryVersion {
			return fmt.Errorf("unsupported build cache entry version %d", version)
		}
		return dec.Decode(e)
	})
}

// Stale reports the first file whose content changed since the build.
func (e *Entry) Stale() (string, bool) {
	for _, f := range e.Files {
		if d, _ := FileDigest(f.Path); d != f.Digest {
			return f.Path, true
		}
	}
	return "", false
}

// Key digests the source text and the options that change its build.
func Key(source []byte, options ...string) string {
	h := xxhash.New()
	h.Write(source)
	for _, o := range options {
		h.Write([]byte{0})
		h.Write([]byte(o))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// FileDigest digests the content of a file. It returns an empty digest and
// the error for a file that cannot be read.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func sourceDigest(source string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64([]byte(source)))
}
