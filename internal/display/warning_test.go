package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningDisplay(t *testing.T) {
	tests := []struct {
		name string
		w    Warning
		want string
	}{
		{
			name: "title only",
			w:    Warning{Title: "No tags configured"},
			want: "⚠️  Warning: No tags configured\n",
		},
		{
			name: "all parts",
			w: Warning{
				Title:  "Priority configured for inactive tags",
				Detail: []string{"Ignored: PERF", "Active: TODO, FIXME"},
				Source: ".todorc.yaml",
				Hint:   "use --add-tag",
			},
			want: "⚠️  Warning: Priority configured for inactive tags\n" +
				"    Ignored: PERF\n" +
				"    Active: TODO, FIXME\n" +
				"    in .todorc.yaml\n" +
				"    hint: use --add-tag\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.w.Display(&buf)
			// a buffer is never a color terminal
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWarnInactivePriorities(t *testing.T) {
	w := WarnInactivePriorities([]string{"SECURITY", "PERF"}, "/p/.todorc.json")
	assert.Equal(t, []string{"Ignored: SECURITY, PERF"}, w.Detail)
	assert.Equal(t, "/p/.todorc.json", w.Source)

	var buf bytes.Buffer
	WarnInactivePriorities([]string{"X"}, "").Display(&buf)
	assert.NotContains(t, buf.String(), "    in ")
	assert.Contains(t, buf.String(), "hint: add the tags with --add-tag")
}
