package config

import "github.com/ivlev/bannerkit/internal/analyzer"

type Config struct {
	ImagesDir string         `koanf:"images_dir" validate:"required"`
	Analyzer  AnalyzerConfig `koanf:"analyzer"`
	Checks    ChecksConfig   `koanf:"checks"`
	Vision    VisionConfig   `koanf:"vision"`
	Renderer  RendererConfig `koanf:"renderer"`
	Review    ReviewConfig   `koanf:"review"`
	Log       LogConfig      `koanf:"log"`
}

type AnalyzerConfig struct {
	NumClusters    int     `koanf:"num_clusters" validate:"min=1"`
	PointThreshold float64 `koanf:"point_threshold" validate:"gte=0,lt=1"`
	Detector       string  `koanf:"detector" validate:"oneof=harris sobel"`
	Seed           *uint64 `koanf:"seed,omitempty"`
}

// ChecksConfig toggles the checkers run after rendering.
type ChecksConfig struct {
	Human          bool   `koanf:"human"`
	AI             bool   `koanf:"ai"`
	ExpectedSlogan string `koanf:"expected_slogan"`
}

type VisionConfig struct {
	APIKey    string `koanf:"api_key"`
	Model     string `koanf:"model" validate:"required"`
	BaseURL   string `koanf:"base_url" validate:"omitempty,url"`
	MaxTokens int    `koanf:"max_tokens" validate:"min=1"`
}

type RendererConfig struct {
	Kind      string `koanf:"kind" validate:"oneof=chrome fitz"`
	WorkDir   string `koanf:"work_dir" validate:"required"`
	Width     int    `koanf:"width" validate:"min=1"`
	Height    int    `koanf:"height" validate:"min=1"`
	DPI       int    `koanf:"dpi" validate:"min=1"`
	RemoteURL string `koanf:"remote_url"`
}

type ReviewConfig struct {
	PreviewAddr string `koanf:"preview_addr" validate:"required"`
	PreviewSize int    `koanf:"preview_size" validate:"min=1"`
	Accessible  bool   `koanf:"accessible"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error disabled"`
	JSON  bool   `koanf:"json"`
}

func Default() *Config {
	return &Config{
		ImagesDir: "banner_images",
		Analyzer: AnalyzerConfig{
			NumClusters:    analyzer.DefaultNumClusters,
			PointThreshold: analyzer.DefaultPointThreshold,
			Detector:       "harris",
		},
		Checks: ChecksConfig{
			Human: true,
		},
		Vision: VisionConfig{
			Model:     "gpt-4o",
			MaxTokens: 400,
		},
		Renderer: RendererConfig{
			Kind:    "chrome",
			WorkDir: "banner_images",
			Width:   1024,
			Height:  1024,
			DPI:     96,
		},
		Review: ReviewConfig{
			PreviewAddr: "127.0.0.1:0",
			PreviewSize: 512,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// AnalyzerOptions maps the analyzer section onto analyzer.Options.
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		NumClusters:    c.Analyzer.NumClusters,
		PointThreshold: c.Analyzer.PointThreshold,
		Detector:       c.Analyzer.Detector,
		Seed:           c.Analyzer.Seed,
	}
}
