package analyzer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnalysisReport is the result of analysing one banner image.
type AnalysisReport struct {
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	Zone          SloganZone `yaml:"zone"`
	DominantColor ColorRGB   `yaml:"dominant_color"`
}

// String renders the report in the line format consumed by prompt
// construction. The layout must not change.
func (r *AnalysisReport) String() string {
	lines := []string{
		fmt.Sprintf("WIDTH: %d px", r.Width),
		fmt.Sprintf("HEIGHT: %d px", r.Height),
		fmt.Sprintf("SLOGAN LOCATION: %s", r.Zone),
		fmt.Sprintf("COLOR rgb: %s", r.DominantColor),
	}
	return strings.Join(lines, "\n")
}

// WriteReport writes a report to a YAML file
func WriteReport(report *AnalysisReport, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadReport reads a report from a YAML file
func ReadReport(path string) (*AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report AnalysisReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
