package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/bannerkit/internal/apperr"
	"github.com/ivlev/bannerkit/internal/console"
	"github.com/ivlev/bannerkit/internal/engine"
	"github.com/ivlev/bannerkit/internal/renderer"
	"github.com/ivlev/bannerkit/internal/review"
	"github.com/ivlev/bannerkit/internal/vision"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <markup-file|->",
		Short: "Render banner markup and run the configured checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if args[0] == "-" && a.cfg.Checks.Human {
				return apperr.Config("markup read from stdin leaves no input for human review; " +
					"pass a markup file or disable it with --human=false")
			}
			markup, err := readMarkup(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			r, err := renderer.New(a.cfg.Renderer)
			if err != nil {
				return err
			}
			if c, ok := r.(io.Closer); ok {
				defer c.Close()
			}

			var model review.VisionModel
			if a.cfg.Checks.AI {
				client, err := vision.New(a.cfg.Vision)
				if err != nil {
					return err
				}
				model = client
			}

			var channel review.ReviewChannel
			if a.cfg.Checks.Human {
				preview := console.NewPreviewServer(a.cfg.Review.PreviewAddr, a.cfg.Review.PreviewSize)
				channel = console.NewTerminalChannel(cmd.InOrStdin(), cmd.OutOrStdout(), preview, a.cfg.Review.Accessible)
			}

			pipeline, err := engine.FromConfig(a.cfg, r, model, channel)
			if err != nil {
				return err
			}
			outcome, err := pipeline.Evaluate(ctx, markup)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outcome.IsAccepted() {
				fmt.Fprintln(out, successStyle.Render("accepted"), outcome.ImagePath)
				return nil
			}
			fmt.Fprintln(out, errorStyle.Render("rejected"))
			fmt.Fprintln(out, remarkStyle.Render(outcome.Remarks))
			return errRejected
		},
	}

	f := cmd.Flags()
	f.Bool("human", false, "ask a human reviewer")
	f.Bool("ai", false, "ask the vision model")
	f.String("slogan", "", "slogan the vision model should look for")
	f.String("renderer", "", "renderer: chrome or fitz")
	a.bind("human", "checks.human")
	a.bind("ai", "checks.ai")
	a.bind("slogan", "checks.expected_slogan")
	a.bind("renderer", "renderer.kind")
	return cmd
}

func readMarkup(stdin io.Reader, arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read markup from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("failed to read markup: %w", err)
	}
	return string(data), nil
}
