package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/unkn0wn-root/tojson"
)

// demoCommand prints a few sample encodings.
type demoCommand struct{}

func addDemoCommand(app *kingpin.Application) {
	cmd := &demoCommand{}
	app.Command("demo", "Print sample encodings.").Action(cmd.run)
}

func (cmd *demoCommand) run(_ *kingpin.ParseContext) error {
	samples := []any{
		[3]int{1, 2, 3},
		tojson.Object{
			{Key: "name", Value: `Ada "the first" Lovelace`},
			{Key: "langs", Value: []string{"en", "fr"}},
			{Key: "born", Value: 1815},
			{Key: "score", Value: 2.5},
			{Key: "alive", Value: false},
			{Key: "manager", Value: nil},
		},
	}
	for _, x := range samples {
		s, err := tojson.Marshal(x)
		if err != nil {
			return err
		}
		fmt.Println(s)
	}
	return nil
}
