package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/bannerkit/internal/analyzer"
	"github.com/ivlev/bannerkit/internal/system"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var reportPath string
	var showStats bool

	cmd := &cobra.Command{
		Use:   "analyze [image]",
		Short: "Report size, slogan zone and dominant color of a banner image",
		Long: "Analyze an image file. Without an argument the most recent image in " +
			"images_dir is used; a directory argument picks its newest image.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target := a.cfg.ImagesDir
			if len(args) == 1 {
				target = args[0]
			}
			path, err := system.FindLatestImage(target)
			if err != nil {
				return err
			}

			an, err := analyzer.New(a.cfg.AnalyzerOptions())
			if err != nil {
				return err
			}
			report, err := an.ParseImage(ctx, path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())

			if reportPath != "" {
				if err := analyzer.WriteReport(report, reportPath); err != nil {
					return err
				}
				a.log.Info("analyze: report written", "path", reportPath)
			}
			if showStats {
				stats, err := system.CollectStats(ctx)
				if err != nil {
					a.log.Warn("analyze: stats unavailable", "error", err)
					return nil
				}
				fmt.Fprintln(cmd.ErrOrStderr(), titleStyle.Render("resources:"), stats.String())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Int("clusters", 0, "number of color clusters")
	f.Float64("threshold", 0, "feature threshold as a fraction of the strongest response")
	f.String("detector", "", "feature detector: harris or sobel")
	f.Uint64("seed", 0, "seed for reproducible color clustering")
	f.StringVar(&reportPath, "report", "", "also write the report as YAML to this path")
	f.BoolVar(&showStats, "stats", false, "print process and host memory after the run")
	a.bind("clusters", "analyzer.num_clusters")
	a.bind("threshold", "analyzer.point_threshold")
	a.bind("detector", "analyzer.detector")
	a.bind("seed", "analyzer.seed")
	return cmd
}
