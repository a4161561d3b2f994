package main

import (
	"errors"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

var (
	acceptColor = color.New(color.FgGreen)
	rejectColor = color.New(color.FgRed)
)

var submatchColors = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

// errRejected makes the process exit with status 1 without an error message.
var errRejected = errors.New("rejected")

var cli struct {
	Check    checkCmd    `cmd:"" help:"Check whether texts are in the language of a pattern."`
	Grep     grepCmd     `cmd:"" help:"Recursively search files for lines containing matches of a pattern."`
	Run      runCmd      `cmd:"" help:"Feed symbols to an automaton read from a file and print every step."`
	Minimize minimizeCmd `cmd:"" help:"Minimize a DFA read from a file."`
	Convert  convertCmd  `cmd:"" help:"Convert an NFA or epsilon NFA read from a file to a DFA."`
	Table    tableCmd    `cmd:"" help:"Print the minimal DFA of a pattern as a transition table."`
	Repl     replCmd     `cmd:"" help:"Interactively check texts against a pattern."`
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("gofa: ")

	ctx := kong.Parse(&cli,
		kong.Name("gofa"),
		kong.Description("Finite automata toolkit: simulate, convert and minimize automata, and compile regular expressions to minimal DFAs."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if errors.Is(err, errRejected) {
		os.Exit(1)
	}
	ctx.FatalIfErrorf(err)
}
