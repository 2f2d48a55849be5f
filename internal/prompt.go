package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoAnswer is returned by Prompter when input ends before a valid answer is given.
var ErrNoAnswer = errors.New("input ended without an answer")

// Prompter asks questions on w and reads answers from r one line at a time.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewPrompter creates a new Prompter.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoAnswer
		}
		return "", fmt.Errorf("read prompt error: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// Input asks for a free-form non-empty answer.
func (p *Prompter) Input(prompt string) (string, error) {
	for {
		_, _ = fmt.Fprintf(p.w, "%s: ", prompt)

		line, err := p.readLine()
		if err != nil || line != "" {
			return line, err
		}
	}
}

// Select shows a numbered menu of items and returns the zero-based index of the chosen one.
//
// An empty answer chooses def. Invalid answers cause the menu to be shown again.
func (p *Prompter) Select(items []string, def int) (int, error) {
	if len(items) == 0 {
		return 0, errors.New("nothing to select from")
	}

	for {
		for i, item := range items {
			marker := " "
			if i == def {
				marker = "*"
			}
			_, _ = fmt.Fprintf(p.w, "%s %2d) %s\n", marker, i+1, item)
		}
		_, _ = fmt.Fprintf(p.w, "Select [1-%d] (default %d): ", len(items), def+1)

		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}

		if i, err := strconv.Atoi(line); err == nil && i >= 1 && i <= len(items) {
			return i - 1, nil
		}

		_, _ = fmt.Fprintf(p.w, "invalid selection %q\n", line)
	}
}

// Confirm asks a Y/N question; only "y" or "yes" (case-insensitive) is a yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	_, _ = fmt.Fprintf(p.w, "%s [y/N]: ", question)

	line, err := p.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
