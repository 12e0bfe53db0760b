// Package engine validates generated banner markup: a structural tag gate,
// rendering, then the configured checkers in order.
package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/config"
	"github.com/ivlev/bannerkit/internal/logger"
	"github.com/ivlev/bannerkit/internal/review"
)

// RequiredTags must each appear as an opening or closing tag.
var RequiredTags = []string{"html", "head"}

const missingTagsMessage = "Html tags not found"

type InvalidMarkupError struct {
	Message string
}

func (e *InvalidMarkupError) Error() string { return e.Message }

func (e *InvalidMarkupError) Is(target error) bool { return target == apperr.ErrInvalidMarkup }

// Renderer turns markup into an image file and returns its path.
type Renderer interface {
	Render(ctx context.Context, markup string) (string, error)
}

type Pipeline struct {
	renderer Renderer
	checkers []review.Checker
}

type Option func(*Pipeline)

// WithChecker appends c; checkers run in the order they were added.
func WithChecker(c review.Checker) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.checkers = append(p.checkers, c)
		}
	}
}

func NewPipeline(r Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{renderer: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromConfig enables the vision checker before the human one. A checker
// that is switched on without its collaborator is a config error.
func FromConfig(cfg *config.Config, r Renderer, model review.VisionModel, channel review.ReviewChannel) (*Pipeline, error) {
	if r == nil {
		return nil, apperr.Config("pipeline requires a renderer")
	}
	var opts []Option
	if cfg.Checks.AI {
		vc, err := review.NewVisionChecker(model, cfg.Checks.ExpectedSlogan)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithChecker(vc))
	}
	if cfg.Checks.Human {
		if channel == nil {
			return nil, apperr.Config("human checking requires a review channel")
		}
		opts = append(opts, WithChecker(review.NewHumanChecker(channel)))
	}
	return NewPipeline(r, opts...), nil
}

// Checkers returns the configured checker names in run order.
func (p *Pipeline) Checkers() []string {
	names := make([]string, len(p.checkers))
	for i, c := range p.checkers {
		names[i] = c.Name()
	}
	return names
}

// HandleOutput returns Accepted or the first failure. Renderer errors are
// returned unmodified.
func (p *Pipeline) HandleOutput(ctx context.Context, markup string) (Outcome, error) {
	log := logger.FromContext(ctx)

	if err := CheckTags(markup); err != nil {
		log.Info("pipeline: markup rejected", "reason", err.Error())
		return Outcome{}, err
	}

	imagePath, err := p.renderer.Render(ctx, markup)
	if err != nil {
		return Outcome{}, err
	}
	log.Debug("pipeline: rendered", "path", imagePath)

	for _, c := range p.checkers {
		if err := c.Check(ctx, imagePath); err != nil {
			log.Info("pipeline: check failed", "checker", c.Name())
			return Outcome{}, err
		}
		log.Debug("pipeline: check passed", "checker", c.Name())
	}

	log.Info("pipeline: output accepted", "path", imagePath)
	return Accepted(imagePath), nil
}

// Evaluate is HandleOutput with retryable failures turned into Rejected
// outcomes carrying the feedback text.
func (p *Pipeline) Evaluate(ctx context.Context, markup string) (Outcome, error) {
	out, err := p.HandleOutput(ctx, markup)
	if err == nil {
		return out, nil
	}
	if apperr.Retryable(err) {
		return Rejected(feedback(err)), nil
	}
	return Outcome{}, err
}

// CheckTags verifies every RequiredTags entry occurs as <tag> or </tag>.
func CheckTags(markup string) error {
	for _, tag := range RequiredTags {
		if !strings.Contains(markup, "<"+tag+">") && !strings.Contains(markup, "</"+tag+">") {
			return &InvalidMarkupError{Message: missingTagsMessage}
		}
	}
	return nil
}

func feedback(err error) string {
	var outErr *review.InvalidOutputError
	if errors.As(err, &outErr) {
		return outErr.Message
	}
	return err.Error()
}
