package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// prompter reads interactive answers from the command's input stream.
type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: stdinIsTerminal(in),
	}
}

func stdinIsTerminal(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		// Piped or test input still answers prompts; only a nil reader
		// counts as non-interactive.
		return in != nil
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *prompter) ask(question string) (string, error) {
	if !p.interactive {
		return "", fmt.Errorf("input required but no interactive terminal: %s", question)
	}
	fmt.Fprintf(p.out, "%s ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.ask(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmOversize implements the ingest confirmation hook. Without a
// terminal the file is declined, never silently uploaded.
func (p *prompter) ConfirmOversize(file string, sizeBytes, limitBytes int64) (bool, error) {
	if !p.interactive {
		fmt.Fprintf(p.out, "%s is %s (limit %s); skipping without a terminal to confirm\n",
			file, humanize.IBytes(uint64(sizeBytes)), humanize.IBytes(uint64(limitBytes)))
		return false, nil
	}
	return p.confirm(fmt.Sprintf("%s is %s, over the %s limit. Upload anyway?",
		file, humanize.IBytes(uint64(sizeBytes)), humanize.IBytes(uint64(limitBytes))))
}
