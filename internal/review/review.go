// Package review holds the checkers that approve or reject a rendered
// banner: an interactive human reviewer and an automated vision-model
// reviewer.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivlev/bannerkit/internal/apperr"
)

// Checker approves (nil error) or rejects (*InvalidOutputError) a rendered
// image. The set of implementations is closed: HumanChecker and
// VisionChecker.
type Checker interface {
	Check(ctx context.Context, imagePath string) error
	Name() string
	sealed()
}

// Remark is one piece of feedback about a named aspect of the output.
type Remark struct {
	Feature     string
	Instruction string
}

func (r Remark) String() string {
	return fmt.Sprintf("    %s: %s", r.Feature, r.Instruction)
}

// InvalidOutputError is returned by a checker that rejected the output.
// Message is the text fed back to the generation loop.
type InvalidOutputError struct {
	Checker string
	Remarks []Remark
	Message string
}

func (e *InvalidOutputError) Error() string {
	return e.Message
}

func (e *InvalidOutputError) Is(target error) bool {
	return target == apperr.ErrInvalidOutput
}

// remarksMessage builds the human reviewer's failure text.
func remarksMessage(remarks []Remark) string {
	lines := make([]string, len(remarks))
	for i, r := range remarks {
		lines[i] = r.String()
	}
	return "update html text:\n" + strings.Join(lines, "\n")
}
