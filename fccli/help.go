package fccli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/flowcanvas/lib/version"
	"oss.terrastruct.com/flowcanvas/lib/xmain"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s render file.json [file.svg]
  %[1]s replay file.json events.json [out.json]
  %[1]s watch [--host=localhost] [--port=0] file.json

file.json is a diagram snapshot: nodes with their automatic and overridden
positions, edges with their routes and the subgraphs around them.

Use - to have %[1]s read from stdin or write to stdout.

Flags:
%[3]s

Subcommands:
  %[1]s render file.json [file.svg] - Renders the snapshot. Defaults to file.svg.
  %[1]s replay file.json events.json [out.json] - Feeds a JSON array of input
    events to the canvas, logs every committed update and writes the updated
    snapshot to out.json, or stdout.
  %[1]s watch file.json - Serves the interactive canvas. Committed updates are
    written back to file.json and external edits to it are reloaded.
  %[1]s version - Prints the version.
`, filepath.Base(ms.Name), version.Version, ms.Opts.Help())
}
