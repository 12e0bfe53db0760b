package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/logger"
	"github.com/ivlev/bannerkit/internal/source"
)

// NoCommentsSentinel in a model reply means nothing needs to change.
const NoCommentsSentinel = "THERE ARE NO COMMENTS"

// VisionRequest is one prompt plus image sent to a vision-capable model.
type VisionRequest struct {
	Prompt string
	Image  []byte
	Format string // MIME type, e.g. image/png
}

// VisionModel answers a VisionRequest with free text.
type VisionModel interface {
	Complete(ctx context.Context, req VisionRequest) (string, error)
}

type VisionChecker struct {
	model          VisionModel
	expectedSlogan string
}

// NewVisionChecker fails with ErrConfig when no model is configured.
func NewVisionChecker(model VisionModel, expectedSlogan string) (*VisionChecker, error) {
	if model == nil {
		return nil, apperr.Config("vision checker requires a vision model client")
	}
	return &VisionChecker{model: model, expectedSlogan: expectedSlogan}, nil
}

func (v *VisionChecker) Name() string { return "vision" }

func (v *VisionChecker) sealed() {}

// EvaluationPrompt is the fixed instruction sent with the image.
func EvaluationPrompt(expectedSlogan string) string {
	hint := ""
	if expectedSlogan != "" {
		hint = fmt.Sprintf(" '%s'", expectedSlogan)
	}
	return fmt.Sprintf("Look at the image, evaluate the quality of the text display%s, "+
		"and if there are comments, give recommendations for better display such as (color, size, location, decoration) "+
		"of the text. If the text is displayed well, then reply only with %s.", hint, NoCommentsSentinel)
}

// Check sends the image to the model. The output passes when the sentinel
// appears anywhere in the reply, case-insensitively, even if other text
// precedes it.
func (v *VisionChecker) Check(ctx context.Context, imagePath string) error {
	log := logger.FromContext(ctx).With("checker", v.Name())

	data, err := source.LoadBytes(imagePath)
	if err != nil {
		return err
	}

	reply, err := v.model.Complete(ctx, VisionRequest{
		Prompt: EvaluationPrompt(v.expectedSlogan),
		Image:  data,
		Format: mimetype.Detect(data).String(),
	})
	if err != nil {
		return apperr.External("vision model", err)
	}

	if strings.Contains(strings.ToLower(reply), strings.ToLower(NoCommentsSentinel)) {
		log.Debug("review: output approved")
		return nil
	}

	log.Info("review: output rejected")
	return &InvalidOutputError{
		Checker: v.Name(),
		Remarks: []Remark{{Feature: "free-form", Instruction: reply}},
		Message: reply,
	}
}
