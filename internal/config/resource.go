// Package config loads resource definitions and server settings.
//
// Resource definitions say which tables are exposed, which fields may be
// filtered (and how their values are typed), which fields are returned by
// default and which columns are lazy references. They are read from YAML
// or CUE, chosen by file extension.
//
// Server settings come from flags, RESTVIEW_* environment variables and
// defaults, through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/restview/internal/filter"
	"github.com/roach88/restview/internal/store"
)

// File is a resource configuration file.
type File struct {
	Resources []Resource `yaml:"resources" json:"resources"`
}

// Resource exposes one table.
type Resource struct {
	Name       string               `yaml:"name" json:"name"`
	Table      string               `yaml:"table" json:"table"`
	IDColumn   string               `yaml:"id_column,omitempty" json:"id_column,omitempty"`
	Columns    []string             `yaml:"columns,omitempty" json:"columns,omitempty"`
	Filters    []Filter             `yaml:"filters,omitempty" json:"filters,omitempty"`
	Fields     []string             `yaml:"fields,omitempty" json:"fields,omitempty"`
	References map[string]Reference `yaml:"references,omitempty" json:"references,omitempty"`
	MaxLimit   int                  `yaml:"max_limit,omitempty" json:"max_limit,omitempty"`
}

// Filter whitelists a filterable field.
type Filter struct {
	Name      string `yaml:"name" json:"name"`
	Transform string `yaml:"transform,omitempty" json:"transform,omitempty"`
}

// Reference declares a foreign-key column rendered through a label.
type Reference struct {
	Table       string `yaml:"table" json:"table"`
	IDColumn    string `yaml:"id_column,omitempty" json:"id_column,omitempty"`
	LabelColumn string `yaml:"label_column" json:"label_column"`
}

// Whitelist returns the filterable field names in declaration order.
func (r Resource) Whitelist() []string {
	names := make([]string, 0, len(r.Filters))
	for _, f := range r.Filters {
		names = append(names, f.Name)
	}
	return names
}

// Transforms resolves the filters' named transforms.
func (r Resource) Transforms() (map[string]filter.Transform, error) {
	byField := make(map[string]string, len(r.Filters))
	for _, f := range r.Filters {
		byField[f.Name] = f.Transform
	}
	return filter.ResolveTransforms(byField)
}

// StoreTable converts the resource to a store.Table.
func (r Resource) StoreTable() store.Table {
	t := store.Table{
		Name:     r.Table,
		IDColumn: r.IDColumn,
		Columns:  r.Columns,
	}
	if len(r.References) > 0 {
		t.References = make(map[string]store.ReferenceSpec, len(r.References))
		for col, ref := range r.References {
			t.References[col] = store.ReferenceSpec{
				Table:       ref.Table,
				IDColumn:    ref.IDColumn,
				LabelColumn: ref.LabelColumn,
			}
		}
	}
	return t
}

// Lookup returns the resource named name.
func (f *File) Lookup(name string) (Resource, bool) {
	for _, r := range f.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// Names returns the resource names in declaration order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Resources))
	for _, r := range f.Resources {
		names = append(names, r.Name)
	}
	return names
}

// Load reads and validates a configuration file. ".cue" files are
// evaluated with CUE; anything else is parsed as YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("read config: %v", err)}
	}

	var f *File
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		f, err = ParseCUE(path, data)
	} else {
		f, err = ParseYAML(data)
	}
	if err != nil {
		return nil, err
	}

	if errs := Validate(f); len(errs) > 0 {
		return nil, errs
	}
	return f, nil
}

// ParseYAML decodes a YAML configuration without validating it.
func ParseYAML(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	return &f, nil
}

// ParseCUE evaluates a CUE configuration without validating it.
// The file must define a top-level "resources" list.
func ParseCUE(filename string, data []byte) (*File, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	if err := value.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("validating CUE value: %v", err)}
	}

	resources := value.LookupPath(cue.ParsePath("resources"))
	if !resources.Exists() {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "CUE config has no resources field"}
	}

	var f File
	if err := resources.Decode(&f.Resources); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("decode resources: %v", err)}
	}
	return &f, nil
}
