// Package tags defines the recognized annotation tags and their priorities.
//
// A Registry is built once from the default table plus user configuration
// and is read-only afterwards, so it can be shared by concurrent scanners.
package tags

import (
	"fmt"
	"strings"

	"github.com/harrison/todotree/internal/models"
)

// Definition describes a single tag
type Definition struct {
	Name        string
	Description string
	Priority    models.Priority
}

// Defaults is the built-in tag table
var Defaults = []Definition{
	{Name: "BUG", Description: "Known bugs", Priority: models.PriorityCritical},
	{Name: "FIXME", Description: "Items that need fixing", Priority: models.PriorityCritical},
	{Name: "ERROR", Description: "Error handling needed", Priority: models.PriorityCritical},
	{Name: "XXX", Description: "Items requiring urgent attention", Priority: models.PriorityCritical},
	{Name: "HACK", Description: "Hacky solutions", Priority: models.PriorityHigh},
	{Name: "WARN", Description: "Warnings", Priority: models.PriorityHigh},
	{Name: "WARNING", Description: "Warning about potential issues", Priority: models.PriorityHigh},
	{Name: "FIX", Description: "Quick fix needed", Priority: models.PriorityHigh},
	{Name: "TODO", Description: "General TODO items", Priority: models.PriorityMedium},
	{Name: "WIP", Description: "Work in progress", Priority: models.PriorityMedium},
	{Name: "MAYBE", Description: "Potential future work", Priority: models.PriorityMedium},
	{Name: "PERF", Description: "Performance issues", Priority: models.PriorityMedium},
	{Name: "NOTE", Description: "Notes and documentation", Priority: models.PriorityLow},
	{Name: "INFO", Description: "Informational notes", Priority: models.PriorityLow},
	{Name: "IDEA", Description: "Ideas for future consideration", Priority: models.PriorityLow},
	{Name: "DOCS", Description: "Documentation needed", Priority: models.PriorityLow},
	{Name: "TEST", Description: "Test-related items", Priority: models.PriorityLow},
}

// DefaultNames returns the names of the built-in tags in table order
func DefaultNames() []string {
	names := make([]string, len(Defaults))
	for i, d := range Defaults {
		names[i] = d.Name
	}
	return names
}

// Find looks up a built-in tag by name, ignoring case
func Find(name string) (Definition, bool) {
	for _, d := range Defaults {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Definition{}, false
}

// Registry is the active tag set for a scan
type Registry struct {
	caseSensitive bool
	defs          []Definition
	byKey         map[string]int
}

// NewRegistry builds a registry from tag names and optional priority overrides.
// Empty names selects the default tags. Tags missing from both the default
// table and priorities are classified Medium. Priority keys are matched
// case-insensitively. Duplicate names collapse to their first occurrence.
func NewRegistry(names []string, priorities map[string]models.Priority, caseSensitive bool) (*Registry, error) {
	if len(names) == 0 {
		names = DefaultNames()
	}

	overrides := make(map[string]models.Priority, len(priorities))
	for name, p := range priorities {
		overrides[strings.ToUpper(name)] = p
	}

	r := &Registry{
		caseSensitive: caseSensitive,
		defs:          make([]Definition, 0, len(names)),
		byKey:         make(map[string]int, len(names)),
	}

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if err := ValidateName(name); err != nil {
			return nil, err
		}

		canonical := name
		if !caseSensitive {
			canonical = strings.ToUpper(name)
		}

		key := r.key(canonical)
		if _, dup := r.byKey[key]; dup {
			continue
		}

		def := Definition{Name: canonical, Priority: models.PriorityMedium}
		if builtin, ok := Find(name); ok {
			def.Priority = builtin.Priority
			def.Description = builtin.Description
		}
		if p, ok := overrides[strings.ToUpper(name)]; ok {
			def.Priority = p
		}

		r.byKey[key] = len(r.defs)
		r.defs = append(r.defs, def)
	}

	return r, nil
}

// ValidateName reports whether name can be used as a tag identifier.
// Tags start with a letter and contain only letters, digits and underscores.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("tag name must not be empty")
	}
	for i, r := range name {
		switch {
		case isLetter(r):
		case i > 0 && (isDigit(r) || r == '_'):
		default:
			return fmt.Errorf("invalid tag name %q: tags must start with a letter and contain only letters, digits or '_'", name)
		}
	}
	return nil
}

func (r *Registry) key(name string) string {
	if r.caseSensitive {
		return name
	}
	return strings.ToUpper(name)
}

// Lookup returns the definition for an identifier found in source text
func (r *Registry) Lookup(ident string) (Definition, bool) {
	idx, ok := r.byKey[r.key(ident)]
	if !ok {
		return Definition{}, false
	}
	return r.defs[idx], true
}

// PriorityOf returns the priority of a tag, or Medium when the tag is unknown
func (r *Registry) PriorityOf(tag string) models.Priority {
	if def, ok := r.Lookup(tag); ok {
		return def.Priority
	}
	return models.PriorityMedium
}

// Names returns the canonical tag names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.defs))
	for i, d := range r.defs {
		names[i] = d.Name
	}
	return names
}

// Definitions returns a copy of the active definitions in registration order
func (r *Registry) Definitions() []Definition {
	return append([]Definition(nil), r.defs...)
}

// CaseSensitive reports whether identifiers must match exactly
func (r *Registry) CaseSensitive() bool {
	return r.caseSensitive
}

// Len returns the number of active tags
func (r *Registry) Len() int {
	return len(r.defs)
}

// ApplyDelta returns base with add appended and remove taken out.
// Comparison ignores case unless caseSensitive is set.
func ApplyDelta(base, add, remove []string, caseSensitive bool) []string {
	fold := func(s string) string {
		s = strings.TrimSpace(s)
		if caseSensitive {
			return s
		}
		return strings.ToUpper(s)
	}

	removed := make(map[string]bool, len(remove))
	for _, name := range remove {
		removed[fold(name)] = true
	}

	seen := make(map[string]bool, len(base)+len(add))
	var result []string
	for _, list := range [][]string{base, add} {
		for _, name := range list {
			key := fold(name)
			if key == "" || removed[key] || seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, strings.TrimSpace(name))
		}
	}
	return result
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
