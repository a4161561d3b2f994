package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mfroeh/gofa/automaton"
	"github.com/mfroeh/gofa/format"
	"github.com/mfroeh/gofa/regex"
)

type checkCmd struct {
	Pattern string   `arg:"" name:"pattern" help:"Regex pattern the texts are checked against" type:"string"`
	Texts   []string `arg:"" name:"text" help:"Texts to check"`
}

func (c *checkCmd) Run() error {
	re, err := regex.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("failed to build regex: %w", err)
	}

	rejected := false
	for _, text := range c.Texts {
		if re.Check(text) {
			acceptColor.Print("ACCEPT")
		} else {
			rejected = true
			rejectColor.Print("REJECT")
		}
		fmt.Printf(" %q\n", text)
	}

	if rejected {
		return errRejected
	}
	return nil
}

// recorder is any automaton whose runs can be recorded step by step.
type recorder interface {
	Record(symbols ...string) (automaton.Run, error)
}

type runCmd struct {
	Kind    string   `help:"Kind of the automaton in the file" enum:"dfa,nfa,enfa" default:"dfa"`
	File    string   `arg:"" name:"file" help:"Automaton in the standard format" type:"existingfile"`
	Symbols []string `arg:"" optional:"" name:"symbol" help:"Symbols to feed, one per argument"`
}

func (r *runCmd) Run() error {
	text, err := os.ReadFile(r.File)
	if err != nil {
		return err
	}

	var m recorder
	switch r.Kind {
	case "dfa":
		m, err = automaton.DFAFromText(string(text), format.Standard{})
	case "nfa":
		m, err = automaton.NFAFromText(string(text), format.Standard{})
	case "enfa":
		m, err = automaton.EpsilonNFAFromText(string(text), format.Standard{})
	}
	if err != nil {
		return fmt.Errorf("%s: %w", r.File, err)
	}

	run, err := m.Record(r.Symbols...)
	for i, snapshot := range run {
		symbol := "start"
		if i > 0 {
			symbol = r.Symbols[i-1]
		}
		fmt.Printf("%-8s {%s} ", symbol, strings.Join(snapshot.Current, ","))
		printVerdict(snapshot.Accepted)
	}
	if err != nil {
		return err
	}

	if !run[len(run)-1].Accepted {
		return errRejected
	}
	return nil
}

type minimizeCmd struct {
	File    string `arg:"" name:"file" help:"DFA in the standard format" type:"existingfile"`
	Table   bool   `help:"Print a transition table instead of the standard format"`
	Verbose bool   `short:"v" help:"Log every pair of merged states"`
}

func (m *minimizeCmd) Run() error {
	text, err := os.ReadFile(m.File)
	if err != nil {
		return err
	}

	dfa, err := automaton.DFAFromText(string(text), format.Standard{})
	if err != nil {
		return fmt.Errorf("%s: %w", m.File, err)
	}

	before := dfa.Len()
	dfa.Reachable()
	reachable := dfa.Len()
	merged := dfa.Distinguish()
	if m.Verbose {
		log.Printf("%d of %d states reachable", reachable, before)
		for _, pair := range merged {
			log.Printf("merged %s into %s", pair[0], pair[1])
		}
	}

	return printAutomaton(dfa, m.Table)
}

type convertCmd struct {
	From     string `help:"Kind of the automaton in the file" enum:"enfa,nfa" default:"enfa"`
	File     string `arg:"" name:"file" help:"Automaton in the standard format" type:"existingfile"`
	Minimize bool   `help:"Minimize the resulting DFA"`
	Table    bool   `help:"Print a transition table instead of the standard format"`
}

func (c *convertCmd) Run() error {
	text, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	var dfa *automaton.DFA
	switch c.From {
	case "enfa":
		var e *automaton.EpsilonNFA
		if e, err = automaton.EpsilonNFAFromText(string(text), format.Standard{}); err == nil {
			dfa, err = automaton.EpsilonNFAToDFA(e)
		}
	case "nfa":
		var n *automaton.NFA
		if n, err = automaton.NFAFromText(string(text), format.Standard{}); err == nil {
			dfa, err = automaton.NFAToDFA(n)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	if c.Minimize {
		dfa.Minimize()
	}
	return printAutomaton(dfa, c.Table)
}

type tableCmd struct {
	Pattern string `arg:"" name:"pattern" help:"Regex pattern to compile" type:"string"`
}

func (t *tableCmd) Run() error {
	re, err := regex.Compile(t.Pattern)
	if err != nil {
		return fmt.Errorf("failed to build regex: %w", err)
	}

	fmt.Printf("%s (min length %d)\n", re.Tree(), re.MinLength())
	return format.WriteTable(os.Stdout, re.Automaton())
}

type replCmd struct {
	Pattern string `arg:"" name:"pattern" help:"Regex pattern the texts are checked against" type:"string"`
}

func (r *replCmd) Run() error {
	re, err := regex.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("failed to build regex: %w", err)
	}

	valid := string(re.ValidCharacters())
	for {
		prompt := promptui.Prompt{
			Label: fmt.Sprintf("Text to check against %s (or 'exit' to quit)", re),
		}
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if input == "exit" {
			return nil
		}

		for _, c := range []byte(input) {
			if strings.IndexByte(valid, c) == -1 {
				fmt.Println(promptui.Styler(promptui.FGYellow)(fmt.Sprintf("character %q is not in the alphabet", c)))
				break
			}
		}
		printVerdict(re.Check(input))
	}
}

func printVerdict(accepted bool) {
	if accepted {
		acceptColor.Println("accepted")
		return
	}
	rejectColor.Println("rejected")
}

func printAutomaton(dfa *automaton.DFA, table bool) error {
	if table {
		return format.WriteTable(color.Output, dfa)
	}
	fmt.Println(format.Compose(dfa))
	return nil
}
