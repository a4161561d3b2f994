package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfroeh/gofa/regex"
)

type grepCmd struct {
	Pattern string   `arg:"" name:"pattern" help:"Regex pattern to use in search" type:"string"`
	Paths   []string `arg:"" optional:"" name:"path" help:"Paths to search" type:"path"`
}

func (g *grepCmd) Run() error {
	re, err := regex.Compile(g.Pattern)
	if err != nil {
		return fmt.Errorf("failed to build regex: %w", err)
	}

	if len(g.Paths) == 0 {
		g.Paths = []string{"."}
	}

	for _, path := range g.Paths {
		info, err := os.Lstat(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if info.IsDir() {
			err = recursivelySearchDir(path, &re)
		} else {
			err = searchFile(path, &re)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func recursivelySearchDir(path string, re *regex.Regex) error {
	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// follows symlinks; broken ones are skipped
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}

		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		return searchFile(path, re)
	})

	return err
}

func searchFile(path string, re *regex.Regex) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	printFileHeader := false
	for i, line := range strings.Split(string(content), "\n") {
		matches := re.FindAllIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		if !printFileHeader {
			printFileHeader = true
			fmt.Println(path, ":")
		}

		fmt.Printf("%d:%s\n", i+1, highlight(line, matches))
	}

	if printFileHeader {
		fmt.Println()
	}

	return nil
}

// highlight colors every match of line, alternating colors between matches
// that touch.
func highlight(line string, matches [][]int) string {
	out := strings.Builder{}
	lastMatchEnd := 0
	for i, match := range matches {
		out.WriteString(line[lastMatchEnd:match[0]])
		c := submatchColors[0]
		if i > 0 && matches[i-1][1] == match[0] {
			c = submatchColors[i%len(submatchColors)]
		}
		c.Fprint(&out, line[match[0]:match[1]])
		lastMatchEnd = match[1]
	}
	out.WriteString(line[lastMatchEnd:])
	return out.String()
}
