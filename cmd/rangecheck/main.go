// Command rangecheck cross-checks the kd-tree and quadtree range queries
// against each other over generated point sets.
package main

import (
	"io"
	"os"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
)

// handler runs a parsed command and returns the process exit code.
type handler func(out io.Writer) (exitCode int)

type command func(*kingpin.Application) (*kingpin.CmdClause, handler)

var commands = []command{
	runCommand,
	demoCommand,
}

func main() {
	app := kingpin.New("rangecheck", "Cross-check orthogonal range search structures.")
	app.HelpFlag.Short('h')

	handlers := map[string]handler{}
	for _, cmdFunction := range commands {
		cmd, h := cmdFunction(app)
		handlers[cmd.FullCommand()] = h
	}

	input := kingpin.MustParse(app.Parse(os.Args[1:]))
	if h := handlers[strings.Split(input, " ")[0]]; h != nil {
		os.Exit(h(os.Stdout))
	}
}
