// tojson - encode binary payloads and native values as compact JSON
//
// Usage:
//
//	tojson encode [--from=msgpack|cbor|protobuf|text] [--cache=...] [file]
//	tojson flush --from=<format> [--cache=...]
//	tojson demo
//
// If no file is given, encode reads from stdin.
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
)

func main() {
	app := kingpin.New("tojson", "Encode values as compact JSON.")
	app.HelpFlag.Short('h')

	addEncodeCommand(app)
	addFlushCommand(app)
	addDemoCommand(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}
