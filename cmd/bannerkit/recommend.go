package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/bannerkit/internal/system"
	"github.com/ivlev/bannerkit/internal/vision"
)

func newRecommendCmd(a *app) *cobra.Command {
	var slogan string

	cmd := &cobra.Command{
		Use:   "recommend [image]",
		Short: "Ask the vision model how to place a slogan on an image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := a.cfg.ImagesDir
			if len(args) == 1 {
				target = args[0]
			}
			path, err := system.FindLatestImage(target)
			if err != nil {
				return err
			}
			client, err := vision.New(a.cfg.Vision)
			if err != nil {
				return err
			}
			advice, err := client.Recommend(cmd.Context(), path, slogan)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), advice)
			return nil
		},
	}
	cmd.Flags().StringVar(&slogan, "slogan", "", "slogan text to place")
	_ = cmd.MarkFlagRequired("slogan")
	return cmd
}
