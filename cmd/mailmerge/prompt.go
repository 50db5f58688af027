package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

var errAborted = errors.New("preview aborted")

// surveyPrompter asks on the terminal whether the preview continues.
type surveyPrompter struct {
	in  terminal.FileReader
	out terminal.FileWriter
	err io.Writer
}

// newSurveyPrompter prompts on in and errOut, falling back to the process
// stdio when they are not files.
func newSurveyPrompter(in io.Reader, errOut io.Writer) *surveyPrompter {
	p := &surveyPrompter{in: os.Stdin, out: os.Stderr, err: errOut}
	if f, ok := in.(terminal.FileReader); ok {
		p.in = f
	}
	if f, ok := errOut.(terminal.FileWriter); ok {
		p.out = f
	}
	return p
}

// continueMessage names the row the preview stopped at. Rows that failed to
// render count toward it, so it never promises what comes next.
func continueMessage(row, total int) string {
	return fmt.Sprintf("Row %d of %d previewed. Continue?", row, total)
}

func (p *surveyPrompter) Continue(ctx context.Context, shown, total int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	prompt := &survey.Confirm{
		Message: continueMessage(shown, total),
		Default: true,
	}
	var out bool
	if err := survey.AskOne(prompt, &out, survey.WithStdio(p.in, p.out, p.err)); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
