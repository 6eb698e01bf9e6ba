package parser

import (
	"path/filepath"
	"strings"
)

// BlockPair is a block comment delimiter pair such as /* and */
type BlockPair struct {
	Start string
	End   string
}

// Syntax describes how comments are written in one family of languages
type Syntax struct {
	Name         string
	LinePrefixes []string
	Blocks       []BlockPair
}

var (
	cBlock    = BlockPair{Start: "/*", End: "*/"}
	htmlBlock = BlockPair{Start: "<!--", End: "-->"}
)

// syntaxes is keyed by syntax name. Adding a language is a table edit.
var syntaxes = map[string]*Syntax{
	"c":        {Name: "c", LinePrefixes: []string{"//"}, Blocks: []BlockPair{cBlock}},
	"css":      {Name: "css", Blocks: []BlockPair{cBlock}},
	"hash":     {Name: "hash", LinePrefixes: []string{"#"}},
	"php":      {Name: "php", LinePrefixes: []string{"//", "#"}, Blocks: []BlockPair{cBlock}},
	"ruby":     {Name: "ruby", LinePrefixes: []string{"#"}, Blocks: []BlockPair{{Start: "=begin", End: "=end"}}},
	"markup":   {Name: "markup", Blocks: []BlockPair{htmlBlock}},
	"sql":      {Name: "sql", LinePrefixes: []string{"--"}, Blocks: []BlockPair{cBlock}},
	"lua":      {Name: "lua", LinePrefixes: []string{"--"}, Blocks: []BlockPair{{Start: "--[[", End: "]]"}}},
	"haskell":  {Name: "haskell", LinePrefixes: []string{"--"}, Blocks: []BlockPair{{Start: "{-", End: "-}"}}},
	"lisp":     {Name: "lisp", LinePrefixes: []string{";"}},
	"percent":  {Name: "percent", LinePrefixes: []string{"%"}},
	"ini":      {Name: "ini", LinePrefixes: []string{";", "#"}},
	"ocaml":    {Name: "ocaml", Blocks: []BlockPair{{Start: "(*", End: "*)"}}},
	"fsharp":   {Name: "fsharp", LinePrefixes: []string{"//"}, Blocks: []BlockPair{{Start: "(*", End: "*)"}}},
	"vim":      {Name: "vim", LinePrefixes: []string{"\""}},
	"batch":    {Name: "batch", LinePrefixes: []string{"REM ", "rem ", "::"}},
	"template": {Name: "template", Blocks: []BlockPair{htmlBlock, {Start: "{{/*", End: "*/}}"}, {Start: "{#", End: "#}"}}},
}

var extensions = map[string]string{
	// C family
	".c": "c", ".h": "c", ".cc": "c", ".cpp": "c", ".cxx": "c", ".hpp": "c", ".hh": "c",
	".cs": "c", ".java": "c", ".kt": "c", ".kts": "c", ".scala": "c", ".groovy": "c", ".gradle": "c",
	".go": "c", ".rs": "c", ".swift": "c", ".dart": "c", ".zig": "c", ".m": "c", ".mm": "c",
	".js": "c", ".jsx": "c", ".mjs": "c", ".cjs": "c", ".ts": "c", ".tsx": "c", ".mts": "c", ".cts": "c",
	".proto": "c", ".v": "c", ".sol": "c", ".jsonc": "c", ".less": "c", ".scss": "c",
	".vue": "c", ".svelte": "c",
	".css": "css",
	".php": "php",
	// Hash comments
	".py": "hash", ".pyi": "hash", ".sh": "hash", ".bash": "hash", ".zsh": "hash", ".fish": "hash",
	".pl": "hash", ".pm": "hash", ".r": "hash", ".jl": "hash", ".ex": "hash", ".exs": "hash",
	".yaml": "hash", ".yml": "hash", ".toml": "hash", ".nim": "hash", ".cmake": "hash",
	".tf": "hash", ".hcl": "hash", ".ps1": "hash", ".mk": "hash", ".cr": "hash", ".coffee": "hash",
	".rb": "ruby", ".sql": "sql", ".lua": "lua", ".hs": "haskell", ".elm": "haskell",
	".lisp": "lisp", ".el": "lisp", ".clj": "lisp", ".cljs": "lisp", ".scm": "lisp", ".rkt": "lisp",
	".erl": "percent", ".hrl": "percent", ".tex": "percent", ".sty": "percent", ".mat": "percent",
	".ini": "ini", ".cfg": "ini", ".conf": "ini",
	".ml": "ocaml", ".mli": "ocaml",
	".fs": "fsharp", ".fsx": "fsharp", ".fsi": "fsharp",
	".vim": "vim",
	".bat": "batch", ".cmd": "batch",
	".html": "markup", ".htm": "markup", ".xml": "markup", ".svg": "markup", ".md": "markup",
	".markdown": "markup", ".xhtml": "markup",
	".tmpl": "template", ".gotmpl": "template", ".j2": "template", ".jinja": "template", ".twig": "template",
}

// filenames maps extensionless file names to a syntax
var filenames = map[string]string{
	"makefile":      "hash",
	"gnumakefile":   "hash",
	"dockerfile":    "hash",
	"containerfile": "hash",
	"justfile":      "hash",
	"rakefile":      "ruby",
	"gemfile":       "ruby",
	"vagrantfile":   "ruby",
	".bashrc":       "hash",
	".zshrc":        "hash",
	".profile":      "hash",
	".gitignore":    "hash",
	".editorconfig": "ini",
	".env":          "hash",
}

// DetectSyntax returns the comment syntax for a path based on its file name
// or extension. The second result is false for unknown files.
func DetectSyntax(path string) (*Syntax, bool) {
	base := strings.ToLower(filepath.Base(path))
	if name, ok := filenames[base]; ok {
		return syntaxes[name], true
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return nil, false
	}
	name, ok := extensions[ext]
	if !ok {
		return nil, false
	}
	return syntaxes[name], true
}

// syntaxByName returns a registered syntax such as "c" or "hash"
func syntaxByName(name string) (*Syntax, bool) {
	s, ok := syntaxes[name]
	return s, ok
}
