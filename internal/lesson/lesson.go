// Package lesson provides the built-in lesson catalog.
package lesson

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/keytutor/internal/layout"
)

//go:embed lessons.yaml
var lessonsYAML []byte

// Lesson is one fixed practice text.
type Lesson struct {
	ID     string `yaml:"id"`
	Stage  string `yaml:"-"`
	Title  string `yaml:"title"`
	Keys   string `yaml:"keys"`
	Text   string `yaml:"text"`
	BaseXP int    `yaml:"base_xp"`
}

// Stage groups lessons; a stage counts as completed once all of its lessons are.
type Stage struct {
	ID      string   `yaml:"stage"`
	Title   string   `yaml:"title"`
	Lessons []Lesson `yaml:"lessons"`
}

// Catalog holds stages per layout.
type Catalog struct {
	stages map[layout.Layout][]Stage
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(lessonsYAML)
}

// Parse decodes a catalog file.
func Parse(data []byte) (*Catalog, error) {
	raw := map[string][]Stage{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode lessons: %w", err)
	}
	c := &Catalog{stages: map[layout.Layout][]Stage{}}
	seen := map[string]struct{}{}
	for code, stages := range raw {
		l, err := layout.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("failed to parse lessons: %w", err)
		}
		for si := range stages {
			for li := range stages[si].Lessons {
				ls := &stages[si].Lessons[li]
				if ls.ID == "" {
					return nil, fmt.Errorf("lesson without id in stage %q", stages[si].ID)
				}
				if _, dup := seen[ls.ID]; dup {
					return nil, fmt.Errorf("duplicate lesson id %q", ls.ID)
				}
				seen[ls.ID] = struct{}{}
				ls.Stage = stages[si].ID
			}
		}
		c.stages[l] = stages
	}
	return c, nil
}

// Stages returns the stages of a layout in catalog order.
func (c *Catalog) Stages(l layout.Layout) []Stage {
	return c.stages[l]
}

// Lessons returns every lesson of a layout in catalog order.
func (c *Catalog) Lessons(l layout.Layout) []Lesson {
	var out []Lesson
	for _, st := range c.stages[l] {
		out = append(out, st.Lessons...)
	}
	return out
}

// Lookup finds a lesson by ID. A miss returns false; callers decide where to go.
func (c *Catalog) Lookup(l layout.Layout, id string) (Lesson, bool) {
	for _, st := range c.stages[l] {
		for _, ls := range st.Lessons {
			if ls.ID == id {
				return ls, true
			}
		}
	}
	return Lesson{}, false
}

// Next returns the first lesson of a layout not present in completed.
func (c *Catalog) Next(l layout.Layout, completed map[string]bool) (Lesson, bool) {
	for _, ls := range c.Lessons(l) {
		if !completed[ls.ID] {
			return ls, true
		}
	}
	return Lesson{}, false
}

// StagesCompleted counts stages, across all layouts, whose lessons are all in
// completed.
func (c *Catalog) StagesCompleted(completed map[string]bool) int {
	n := 0
	for _, l := range layout.All() {
		for _, st := range c.stages[l] {
			if StageCompleted(st, completed) {
				n++
			}
		}
	}
	return n
}

// StageCompleted reports whether every lesson of st is in completed.
func StageCompleted(st Stage, completed map[string]bool) bool {
	if len(st.Lessons) == 0 {
		return false
	}
	for _, ls := range st.Lessons {
		if !completed[ls.ID] {
			return false
		}
	}
	return true
}
