// Package descriptor parses package descriptors (package.json files) and
// classifies the specifiers used to request packages.
//
// A descriptor may embed an override block (key "ender" by default) whose
// fields take precedence over the base document:
//
//	{
//	  "name": "bonzo-dom",
//	  "version": "1.4.0",
//	  "main": "lib/node.js",
//	  "ender": { "name": "bonzo", "main": "src/bonzo.js" }
//	}
//
// Here [Descriptor.Name] is "bonzo", [Descriptor.RawName] is "bonzo-dom"
// and Field("main") is "src/bonzo.js". Package identity always uses the
// raw name.
package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Descriptor is a parsed package descriptor. It is not safe for concurrent
// mutation.
type Descriptor struct {
	RawName      string // "name" of the base document
	OverrideName string // "name" of the override block, if any

	base     map[string]any
	override map[string]any

	// Declaration order of object-valued "dependencies", which a plain map
	// decode loses.
	baseDeps     []string
	overrideDeps []string
}

// Parse decodes descriptor content. overrideKey names the embedded
// override block; an override value that is not an object is ignored.
func Parse(data []byte, overrideKey string) (*Descriptor, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, errors.New("descriptor is not a JSON object")
	}

	d := &Descriptor{base: make(map[string]any, len(top))}
	for k, raw := range top {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		d.base[k] = v
	}
	if raw, ok := top["dependencies"]; ok {
		d.baseDeps = objectKeys(raw)
	}

	if raw, ok := top[overrideKey]; ok {
		var block map[string]json.RawMessage
		if err := json.Unmarshal(raw, &block); err == nil && block != nil {
			d.override, _ = d.base[overrideKey].(map[string]any)
			if deps, ok := block["dependencies"]; ok {
				d.overrideDeps = objectKeys(deps)
			}
		}
	}

	d.RawName, _ = d.base["name"].(string)
	d.OverrideName, _ = d.override["name"].(string)
	return d, nil
}

// objectKeys returns the keys of a JSON object in document order, or nil
// if raw is not an object. Duplicate keys keep their first position.
func objectKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// Name is the display name: the override name when present, else the raw name.
func (d *Descriptor) Name() string {
	if d.OverrideName != "" {
		return d.OverrideName
	}
	return d.RawName
}

// Field looks key up in the override block, then in the base document.
func (d *Descriptor) Field(key string) (any, bool) {
	if v, ok := d.override[key]; ok {
		return v, true
	}
	v, ok := d.base[key]
	return v, ok
}

// SetField replaces key in the base document. Setting "name" also updates
// RawName.
func (d *Descriptor) SetField(key string, v any) {
	if d.base == nil {
		d.base = make(map[string]any)
	}
	d.base[key] = normalize(v)
	switch key {
	case "name":
		d.RawName, _ = v.(string)
	case "dependencies":
		d.baseDeps = nil
	}
}

// normalize converts common Go literals into the shapes JSON decoding
// produces, so values set in code read back like parsed ones.
func normalize(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	}
	return v
}

// Version returns the "version" field, or "" when absent.
func (d *Descriptor) Version() string { return d.stringField("version") }

// Description returns the "description" field, or "" when absent.
func (d *Descriptor) Description() string { return d.stringField("description") }

// Bare reports whether the package asks to be included without wrapping.
func (d *Descriptor) Bare() bool {
	v, _ := d.Field("bare")
	return truthy(v)
}

func (d *Descriptor) stringField(key string) string {
	v, ok := d.Field(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	}
	return true
}

// Scripts returns the declared file list of key ("main", "bridge" or
// "files"). A string is a one-element list; an object contributes its
// "scripts" member; anything else is empty.
func (d *Descriptor) Scripts(key string) []string {
	v, _ := d.Field(key)
	if m, ok := v.(map[string]any); ok {
		v = m["scripts"]
	}
	return stringList(v)
}

// Externs returns the declared extern paths, relative to the package root.
func (d *Descriptor) Externs() []string {
	v, _ := d.Field("externs")
	return stringList(v)
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Dependencies returns the declared dependency entries in declaration
// order: the elements of a list, or the keys of an object. Entries are
// not normalized; see [Classifier.ExtractName].
func (d *Descriptor) Dependencies() []string {
	v, ok := d.override["dependencies"]
	order := d.overrideDeps
	if !ok {
		v = d.base["dependencies"]
		order = d.baseDeps
	}

	switch t := v.(type) {
	case []any:
		return stringList(t)
	case map[string]any:
		if len(order) == len(t) {
			return slices.Clone(order)
		}
		return slices.Sorted(maps.Keys(t))
	}
	return nil
}
