// Package prompt implements an interactive ports.ApprovalPrompt over a
// terminal, for workflow stages that declare an approval gate.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/zerr"
)

// Terminal asks y/n questions on an arbitrary input/output pair. Tests and
// non-interactive callers can supply any io.Reader/io.Writer; production
// wiring uses os.Stdin/os.Stdout.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminal builds a Terminal prompting over in/out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

// Confirm blocks on a single line of stdin, treating "y" or "yes"
// (case-insensitive, surrounding space trimmed) as approval and anything
// else, including a bare newline, as rejection. A closed stdin or a read
// error returns false with an error.
func (t *Terminal) Confirm(ctx context.Context, stageName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(t.out, "approve stage %q? [y/N] ", stageName)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return false, zerr.Wrap(err, "failed to read approval response")
		}
		return false, zerr.New("no approval response, stdin closed")
	}
	answer := strings.ToLower(strings.TrimSpace(t.in.Text()))
	return answer == "y" || answer == "yes", nil
}
