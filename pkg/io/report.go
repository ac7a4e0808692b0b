package io

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ender-js/ender-package/pkg/deps"
	"github.com/ender-js/ender-package/pkg/errors"
	"github.com/ender-js/ender-package/pkg/local"
)

// Format selects the encoding used by [Write].
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (want json or yaml)", s)
}

// Report is the machine-readable form of a walk.
type Report struct {
	Requested []string `json:"requested" yaml:"requested"`
	Packages  []Record `json:"packages" yaml:"packages"`
	Missing   []string `json:"missing" yaml:"missing"`
}

// Record describes one walked package.
type Record struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Version      string   `json:"version,omitempty" yaml:"version,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Root         string   `json:"root" yaml:"root"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// NewReport flattens a walk, keeping its post-order.
func NewReport(g *deps.Graph) Report {
	r := Report{
		Requested: nonNil(g.Requested),
		Packages:  make([]Record, len(g.Packages)),
		Missing:   nonNil(g.Missing),
	}
	for i, p := range g.Packages {
		r.Packages[i] = NewRecord(p)
	}
	return r
}

// NewRecord describes a package whose descriptor is loaded.
func NewRecord(p *local.Package) Record {
	return Record{
		ID:           p.ID(),
		Name:         p.Name(),
		Version:      p.Version(),
		Description:  p.Description(),
		Root:         p.Root(),
		Dependencies: p.Dependencies(),
	}
}

// SourceSet is the assembled source of one package.
type SourceSet struct {
	ID      string            `json:"id" yaml:"id"`
	Root    string            `json:"root" yaml:"root"`
	Main    string            `json:"main,omitempty" yaml:"main,omitempty"`
	Bridge  string            `json:"bridge,omitempty" yaml:"bridge,omitempty"`
	Sources map[string]string `json:"sources" yaml:"sources"`
	Externs []string          `json:"externs,omitempty" yaml:"externs,omitempty"`
}

// NewSourceSet captures the sources of a package whose sources are loaded.
func NewSourceSet(p *local.Package) SourceSet {
	srcs := p.Sources()
	if srcs == nil {
		srcs = map[string]string{}
	}
	return SourceSet{
		ID:      p.ID(),
		Root:    p.Root(),
		Main:    p.Main(),
		Bridge:  p.Bridge(),
		Sources: srcs,
		Externs: p.Externs(),
	}
}

// Write encodes v to w in the given format.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown output format %q", format)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
