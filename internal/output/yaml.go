package output

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLTimelineWriter writes the timeline as a YAML sequence with the JSON record shape.
type YAMLTimelineWriter struct{}

// Write outputs the timeline as YAML.
func (w *YAMLTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	return writeYAML(toJSONRecords(report.Timeline), options)
}

// YAMLSummaryWriter writes summary reports as YAML.
type YAMLSummaryWriter struct{}

// Write outputs the summary report as YAML.
func (w *YAMLSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	return writeYAML(toJSONSummaryReport(report, options), options)
}

func writeYAML(v any, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
