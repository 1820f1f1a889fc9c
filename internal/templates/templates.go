// Package templates loads industry metadata and prompt hints from the
// static JSON files shipped alongside the CLI.
package templates

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/calance/sales-edge/internal/logger"
)

// ConfigFile lists the industries; each enabled one has a file under
// CaseStudyDir named <id>.json.
const (
	ConfigFile   = "template-config.json"
	CaseStudyDir = "case-studies"
)

// Industry is one entry of template-config.json.
type Industry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	Color   string `json:"color,omitempty"`
	Enabled bool   `json:"enabled"`
}

// IndustryTemplate holds the prompt hints for one industry.
type IndustryTemplate struct {
	Industry    string  `json:"industry"`
	Icon        string  `json:"icon,omitempty"`
	Description string  `json:"description,omitempty"`
	Prompts     Prompts `json:"caseStudyPrompts"`
}

type Prompts struct {
	Structured StructuredHints `json:"structured"`
}

// StructuredHints suggest values for the structured case study form.
type StructuredHints struct {
	CommonChallenges []string `json:"commonChallenges,omitempty"`
	TypicalMetrics   []string `json:"typicalMetrics,omitempty"`
	KeyBenefits      []string `json:"keyBenefits,omitempty"`
}

// Set is the loaded template collection. The zero value is an empty set.
type Set struct {
	Industries []Industry
	Templates  map[string]IndustryTemplate
}

// Template returns the hints for an industry.
func (s Set) Template(id string) (IndustryTemplate, bool) {
	t, ok := s.Templates[id]
	return t, ok
}

// Enabled returns the industries that can be picked on the form.
func (s Set) Enabled() []Industry {
	var out []Industry
	for _, ind := range s.Industries {
		if ind.Enabled {
			out = append(out, ind)
		}
	}
	return out
}

// Empty reports whether nothing was loaded.
func (s Set) Empty() bool { return len(s.Industries) == 0 }

// Load reads the templates from dir. Any failure is logged and yields an
// empty set so the form still works without hints.
func Load(dir string, log *slog.Logger) Set {
	return LoadFS(os.DirFS(dir), log)
}

// LoadFS is Load over an arbitrary file system.
func LoadFS(fsys fs.FS, log *slog.Logger) Set {
	log = logger.Or(log)
	set, err := load(fsys)
	if err != nil {
		log.Warn("templates unavailable, continuing without them", "error", err)
		return Set{}
	}
	return set
}

func load(fsys fs.FS) (Set, error) {
	var cfg struct {
		Industries []Industry `json:"industries"`
	}
	if err := readJSON(fsys, ConfigFile, &cfg); err != nil {
		return Set{}, err
	}

	set := Set{Industries: cfg.Industries, Templates: map[string]IndustryTemplate{}}
	for _, ind := range cfg.Industries {
		if !ind.Enabled {
			continue
		}
		var tpl IndustryTemplate
		if err := readJSON(fsys, path.Join(CaseStudyDir, ind.ID+".json"), &tpl); err != nil {
			return Set{}, err
		}
		set.Templates[ind.ID] = tpl
	}
	return set, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
