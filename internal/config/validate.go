package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/restview/internal/filter"
)

// Error codes, shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeParseFailed = "E004" // YAML/CUE decode failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeNoResources       = "E200" // No resources defined
	ErrCodeInvalidName       = "E201" // Resource name empty or malformed
	ErrCodeDuplicateResource = "E202" // Resource name used twice
	ErrCodeMissingTable      = "E203" // Resource without table
	ErrCodeInvalidFilter     = "E204" // Filter name empty, malformed or duplicated
	ErrCodeReservedFilter    = "E205" // Filter uses a reserved parameter name
	ErrCodeUnknownTransform  = "E206" // Filter transform not registered
	ErrCodeInvalidReference  = "E207" // Reference without table or label column
	ErrCodeInvalidLimit      = "E208" // Negative max_limit
)

// Reserved are query parameters that never act as filters.
var Reserved = []string{"page", "limit", "fields", "locale"}

// namePattern matches resource and filter names; it is the FIELD part of
// the filter grammar.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// LoadError reports a file that could not be read or decoded.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationError is one problem in a decoded configuration.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors collects every problem found.
type ValidationErrors []ValidationError

// Error joins all messages.
func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks f. It does not fail fast.
func Validate(f *File) ValidationErrors {
	var errs ValidationErrors
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if f == nil || len(f.Resources) == 0 {
		add("resources", ErrCodeNoResources, "at least one resource is required")
		return errs
	}

	reserved := make(map[string]struct{}, len(Reserved))
	for _, name := range Reserved {
		reserved[name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(f.Resources))
	for i, r := range f.Resources {
		field := fmt.Sprintf("resources[%d]", i)

		switch {
		case !namePattern.MatchString(r.Name):
			add(field+".name", ErrCodeInvalidName, "resource name %q must match %s", r.Name, namePattern)
		default:
			if _, dup := seen[r.Name]; dup {
				add(field+".name", ErrCodeDuplicateResource, "resource %q defined more than once", r.Name)
			}
			seen[r.Name] = struct{}{}
		}

		if strings.TrimSpace(r.Table) == "" {
			add(field+".table", ErrCodeMissingTable, "table is required")
		}

		if r.MaxLimit < 0 {
			add(field+".max_limit", ErrCodeInvalidLimit, "max_limit must not be negative, got %d", r.MaxLimit)
		}

		filters := make(map[string]struct{}, len(r.Filters))
		for j, fl := range r.Filters {
			ff := fmt.Sprintf("%s.filters[%d]", field, j)
			if !namePattern.MatchString(fl.Name) {
				add(ff+".name", ErrCodeInvalidFilter, "filter name %q must match %s", fl.Name, namePattern)
				continue
			}
			if _, ok := reserved[fl.Name]; ok {
				add(ff+".name", ErrCodeReservedFilter, "%q is a reserved parameter", fl.Name)
			}
			if _, dup := filters[fl.Name]; dup {
				add(ff+".name", ErrCodeInvalidFilter, "filter %q declared more than once", fl.Name)
			}
			filters[fl.Name] = struct{}{}

			if fl.Transform != "" {
				if _, ok := filter.Named(fl.Transform); !ok {
					add(ff+".transform", ErrCodeUnknownTransform, "unknown transform %q (known: %s)",
						fl.Transform, strings.Join(filter.NamedTransforms(), ", "))
				}
			}
		}

		for col, ref := range r.References {
			rf := fmt.Sprintf("%s.references.%s", field, col)
			if ref.Table == "" || ref.LabelColumn == "" {
				add(rf, ErrCodeInvalidReference, "table and label_column are required")
			}
		}
	}

	return errs
}
