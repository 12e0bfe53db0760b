// Package vision talks to a vision-capable chat model through langchaingo.
// Client satisfies review.VisionModel and also answers the slogan
// placement question used by the recommend command.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/config"
	"github.com/ivlev/bannerkit/internal/logger"
	"github.com/ivlev/bannerkit/internal/review"
	"github.com/ivlev/bannerkit/internal/source"
)

const DefaultMaxTokens = 400

var errEmptyResponse = errors.New("model returned no choices")

type Client struct {
	llm       llms.Model
	maxTokens int
}

var _ review.VisionModel = (*Client)(nil)

// New builds an OpenAI-backed client. A missing API key is a config error
// raised here rather than on the first request.
func New(cfg config.VisionConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.Config("vision.api_key is not set (export OPENAI_API_KEY)")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, apperr.External("openai", err)
	}
	return NewWithModel(llm, cfg.MaxTokens), nil
}

// NewWithModel wraps an existing langchaingo model.
func NewWithModel(llm llms.Model, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Client{llm: llm, maxTokens: maxTokens}
}

// Complete sends the prompt and the image as a data URL in one user message
// and returns the first choice.
func (c *Client) Complete(ctx context.Context, req review.VisionRequest) (string, error) {
	format := req.Format
	if format == "" {
		format = mimetype.Detect(req.Image).String()
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", format, base64.StdEncoding.EncodeToString(req.Image))

	messages := []llms.MessageContent{{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(req.Prompt),
			llms.ImageURLPart(dataURL),
		},
	}}

	logger.FromContext(ctx).Debug("vision: sending request", "format", format, "bytes", len(req.Image))
	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(c.maxTokens))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

// RecommendPrompt asks for placement advice without any markup.
func RecommendPrompt(slogan string) string {
	return fmt.Sprintf("Briefly describe the image, and give recommendations on generating html code to place "+
		"the text '%s' above the image. It is necessary to get recommendations on "+
		"(color, font, size, location and decoration) of the text.\n"+
		"NOTE: not return html code example", slogan)
}

// Recommend describes the image and suggests how to lay the slogan over it.
func (c *Client) Recommend(ctx context.Context, imagePath, slogan string) (string, error) {
	data, err := source.LoadBytes(imagePath)
	if err != nil {
		return "", err
	}
	reply, err := c.Complete(ctx, review.VisionRequest{
		Prompt: RecommendPrompt(slogan),
		Image:  data,
		Format: mimetype.Detect(data).String(),
	})
	if err != nil {
		return "", apperr.External("vision model", err)
	}
	return reply, nil
}
