package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/bannerkit/internal/assets"
)

func newQRCmd(_ *app) *cobra.Command {
	var out string
	var size int

	cmd := &cobra.Command{
		Use:   "qr <content>",
		Short: "Write a call-to-action QR code as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := assets.WriteQRCode(args[0], out, size); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("written"), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "qr.png", "output PNG path")
	cmd.Flags().IntVar(&size, "size", assets.DefaultQRSize, "image size in pixels")
	return cmd
}
