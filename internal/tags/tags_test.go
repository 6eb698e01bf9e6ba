package tags

import (
	"testing"

	"github.com/harrison/todotree/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsClassification(t *testing.T) {
	counts := map[models.Priority]int{}
	for _, d := range Defaults {
		counts[d.Priority]++
		assert.NotEmpty(t, d.Description, "tag %s has no description", d.Name)
		assert.NoError(t, ValidateName(d.Name))
	}

	assert.Equal(t, 4, counts[models.PriorityCritical])
	assert.Equal(t, 4, counts[models.PriorityHigh])
	assert.Equal(t, 4, counts[models.PriorityMedium])
	assert.Equal(t, 5, counts[models.PriorityLow])
	assert.Len(t, DefaultNames(), len(Defaults))
}

func TestFindIgnoresCase(t *testing.T) {
	def, ok := Find("fixme")
	require.True(t, ok)
	assert.Equal(t, "FIXME", def.Name)
	assert.Equal(t, models.PriorityCritical, def.Priority)

	_, ok = Find("NONEXISTENT")
	assert.False(t, ok)
}

func TestNewRegistryDefaults(t *testing.T) {
	r, err := NewRegistry(nil, nil, false)
	require.NoError(t, err)

	assert.Equal(t, len(Defaults), r.Len())
	for name, want := range map[string]models.Priority{
		"BUG":   models.PriorityCritical,
		"XXX":   models.PriorityCritical,
		"HACK":  models.PriorityHigh,
		"TODO":  models.PriorityMedium,
		"PERF":  models.PriorityMedium,
		"NOTE":  models.PriorityLow,
		"IDEA":  models.PriorityLow,
		"todo":  models.PriorityMedium,
		"Fixme": models.PriorityCritical,
	} {
		def, ok := r.Lookup(name)
		require.True(t, ok, "expected %s to be active", name)
		assert.Equal(t, want, def.Priority, "priority of %s", name)
	}
}

func TestNewRegistryCustomTags(t *testing.T) {
	r, err := NewRegistry(
		[]string{"todo", "security", "Review", "TODO"},
		map[string]models.Priority{"SECURITY": models.PriorityCritical},
		false,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"TODO", "SECURITY", "REVIEW"}, r.Names())
	assert.Equal(t, models.PriorityCritical, r.PriorityOf("security"))
	assert.Equal(t, models.PriorityMedium, r.PriorityOf("review"))
	assert.False(t, lookupOK(r, "FIXME"), "FIXME was not requested")
}

func TestNewRegistryCaseSensitive(t *testing.T) {
	r, err := NewRegistry([]string{"TODO"}, nil, true)
	require.NoError(t, err)

	assert.True(t, r.CaseSensitive())
	assert.True(t, lookupOK(r, "TODO"))
	assert.False(t, lookupOK(r, "todo"))
	assert.False(t, lookupOK(r, "Todo"))
}

func TestNewRegistryRejectsInvalidNames(t *testing.T) {
	for _, name := range []string{"", "TO DO", "1TODO", "TODO!", "_TODO"} {
		_, err := NewRegistry([]string{name}, nil, false)
		assert.Error(t, err, "expected %q to be rejected", name)
	}
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name          string
		base, add     []string
		remove        []string
		caseSensitive bool
		want          []string
	}{
		{
			name:   "add and remove",
			base:   []string{"TODO", "FIXME", "NOTE"},
			add:    []string{"SECURITY"},
			remove: []string{"note"},
			want:   []string{"TODO", "FIXME", "SECURITY"},
		},
		{
			name: "duplicates collapse",
			base: []string{"TODO"},
			add:  []string{"todo", "BUG"},
			want: []string{"TODO", "BUG"},
		},
		{
			name:          "case sensitive keeps variants",
			base:          []string{"TODO"},
			add:           []string{"todo"},
			remove:        []string{"Todo"},
			caseSensitive: true,
			want:          []string{"TODO", "todo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDelta(tt.base, tt.add, tt.remove, tt.caseSensitive)
			assert.Equal(t, tt.want, got)
		})
	}
}

func lookupOK(r *Registry, ident string) bool {
	_, ok := r.Lookup(ident)
	return ok
}
