package buildcache

import (
	"io/ioutil"
	"sort"
	"sync"

	"github.com/scratchlang/slc/assets"
	"github.com/scratchlang/slc/script"
)

// Tracker records the asset and extension files read through it during a
// compile.
type Tracker struct {
	script.Assets

	mu    sync.Mutex
	paths map[string]struct{}
}

func NewTracker(a script.Assets) *Tracker {
	return &Tracker{
		Assets: a,
		paths:  make(map[string]struct{}),
	}
}

func (t *Tracker) AddImage(path string) (*assets.Asset, error) {
	t.record(path)
	return t.Assets.AddImage(path)
}

func (t *Tracker) AddSound(path string) (*assets.Asset, error) {
	t.record(path)
	return t.Assets.AddSound(path)
}

// ReadFile reads an imported extension script.
func (t *Tracker) ReadFile(path string) ([]byte, error) {
	t.record(path)
	if r, ok := t.Assets.(script.FileReader); ok {
		return r.ReadFile(path)
	}
	return ioutil.ReadFile(path)
}

func (t *Tracker) record(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths[path] = struct{}{}
}

// Files digests every recorded file, sorted by path.
func (t *Tracker) Files() []File {
	t.mu.Lock()
	defer t.mu.Unlock()
	files := make([]File, 0, len(t.paths))
	for p := range t.paths {
		d, _ := FileDigest(p)
		files = append(files, File{Path: p, Digest: d})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}
