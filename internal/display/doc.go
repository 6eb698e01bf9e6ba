// Package display renders scan reports and other user-facing output.
//
// This package centralizes terminal output formatting for todotree: the
// report renderer, the stats and tags listings, and warning blocks.
//
// # Report Rendering
//
// A Renderer turns an aggregator.Report into one of three formats:
//
//	r := display.NewRenderer(display.Options{
//	    Mode:       display.ModeTree,
//	    Root:       root,
//	    Color:      display.ColorEnabled(os.Stdout, noColor),
//	    Hyperlinks: display.SupportsHyperlinks(os.Stdout),
//	})
//	if err := r.Render(os.Stdout, report); err != nil {
//	    return err
//	}
//
// Tree output has two levels, the group (file or tag) and its items:
//
//	├── src/main.go (2)
//	│   ├── [L10] TODO: implement
//	│   └── [L20] FIXME (alice): leak
//	└── README.md (1)
//	    └── [L3] NOTE: docs
//
// Flat output prints "path:line:column [TAG] message" per item. Both text
// modes end with the summary line and per-tag counts. JSON output follows a
// fixed schema (see JSONOutput) and never contains escape codes.
//
// # Colors and Hyperlinks
//
// Tag labels are colored by priority: Critical red, High yellow, Medium cyan,
// Low green. Paths and line numbers can be wrapped in OSC 8 hyperlinks to
// file://<abs>:<line>. Both only add escape sequences around the text;
// stripping them yields exactly the plain output.
//
// Colors are enabled per renderer, never through the color.NoColor global.
// ColorEnabled honours NO_COLOR and requires a terminal.
//
// # Warnings
//
// Configuration problems that do not stop a scan are printed to stderr as a
// Warning block before the report:
//
//	display.WarnInactivePriorities([]string{"SECURITY"}, ".todorc.json").Display(os.Stderr)
package display
