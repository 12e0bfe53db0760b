package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivlev/bannerkit/internal/logger"
)

// Features are asked in this order.
var Features = []string{"color", "size", "position", "font", "additions"}

// ReviewChannel is the surface a human reviewer works through. Present
// shows the image, CollectRemark blocks for one answer ("" means no
// remark) and Dismiss releases whatever Present acquired.
type ReviewChannel interface {
	Present(ctx context.Context, imagePath string) error
	CollectRemark(ctx context.Context, feature string) (string, error)
	Dismiss() error
}

// Prompt is the question shown for a feature.
func Prompt(feature string) string {
	return fmt.Sprintf("Change text %s? input text %s or press Enter: ", feature, feature)
}

type HumanChecker struct {
	channel ReviewChannel
}

func NewHumanChecker(channel ReviewChannel) *HumanChecker {
	return &HumanChecker{channel: channel}
}

func (h *HumanChecker) Name() string { return "human" }

func (h *HumanChecker) sealed() {}

// Check presents the image, asks about every feature and rejects the output
// if any answer was non-empty. The display is dismissed on every path once
// it was presented.
func (h *HumanChecker) Check(ctx context.Context, imagePath string) (err error) {
	if h.channel == nil {
		return errors.New("review: human checker has no review channel")
	}
	log := logger.FromContext(ctx).With("checker", h.Name())

	if err := h.channel.Present(ctx, imagePath); err != nil {
		return fmt.Errorf("review: present %s: %w", imagePath, err)
	}
	defer func() {
		if dErr := h.channel.Dismiss(); dErr != nil {
			log.Warn("review: dismiss failed", "error", dErr)
			if err == nil {
				err = fmt.Errorf("review: dismiss: %w", dErr)
			}
		}
	}()

	var remarks []Remark
	for _, feature := range Features {
		text, err := h.channel.CollectRemark(ctx, feature)
		if err != nil {
			return fmt.Errorf("review: collect %s remark: %w", feature, err)
		}
		if text != "" {
			remarks = append(remarks, Remark{Feature: feature, Instruction: text})
		}
	}

	if len(remarks) > 0 {
		log.Info("review: output rejected", "remarks", len(remarks))
		return &InvalidOutputError{
			Checker: h.Name(),
			Remarks: remarks,
			Message: remarksMessage(remarks),
		}
	}
	log.Debug("review: output approved")
	return nil
}
