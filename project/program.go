// Package project models Scratch 3 programs: targets holding arenas of
// linked blocks, the builder that grows them, and their serialized form.
package project

import "encoding/json"

// Meta is the metadata section of a project.
type Meta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

// Program is a complete project.
type Program struct {
	// Targets holds the stage first, then the sprites.
	Targets       []*Target
	Monitors      []json.RawMessage
	Extensions    []string
	ExtensionURLs map[string]string
	Meta          Meta

	// Resources are the asset payloads keyed by md5ext filename.
	Resources map[string][]byte
}

// Stage returns the stage target, or nil.
func (p *Program) Stage() *Target {
	for _, t := range p.Targets {
		if t.IsStage {
			return t
		}
	}
	return nil
}

// Sprites returns the sprite targets in order.
func (p *Program) Sprites() []*Target {
	var sprites []*Target
	for _, t := range p.Targets {
		if !t.IsStage {
			sprites = append(sprites, t)
		}
	}
	return sprites
}

// Target returns the target with the name.
func (p *Program) Target(name string) (*Target, bool) {
	for _, t := range p.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// HasExtension reports whether the extension id is registered.
func (p *Program) HasExtension(id string) bool {
	for _, e := range p.Extensions {
		if e == id {
			return true
		}
	}
	return false
}
