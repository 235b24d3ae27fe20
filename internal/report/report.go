// Package report renders the per-run site report.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/chris-casper/RF-Sim/internal/geo"
	"github.com/chris-casper/RF-Sim/internal/params"
)

// Generator builds the site report for a finished run
type Generator struct {
	md goldmark.Markdown
}

// NewGenerator creates a report generator
func NewGenerator() *Generator {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	return &Generator{md: md}
}

// BuildMarkdown produces the markdown source of the site report: the
// resolved parameter set, the derived bounds, and the produced artifacts.
func (g *Generator) BuildMarkdown(site *params.SiteParameters, bounds geo.BoundingBox, artifacts []string, generatedAt time.Time) string {
	unit := "mi"
	if site.Metric {
		unit = "km"
	}
	output := "dBm"
	if site.FieldStrength {
		output = "dBµV/m"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Coverage report: %s\n\n", site.Name)
	if site.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", site.Description)
	}
	fmt.Fprintf(&b, "Generated %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Transmitter\n\n")
	b.WriteString("| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Location | %.6f, %.6f |\n", site.Latitude, site.Longitude)
	fmt.Fprintf(&b, "| Antenna height | %.1f m AGL |\n", site.TxHeight)
	fmt.Fprintf(&b, "| Frequency | %.3f MHz |\n", site.FrequencyMHz)
	fmt.Fprintf(&b, "| Power / gain | %.2f W / %.2f dBi |\n", site.PowerWatts, site.GainDBi)
	fmt.Fprintf(&b, "| ERP | %.2f W |\n", site.ERP)
	fmt.Fprintf(&b, "| Radius | %.1f %s |\n", site.Radius, unit)
	fmt.Fprintf(&b, "| Resolution | %d samples/degree |\n", site.Resolution)
	fmt.Fprintf(&b, "| Propagation model | %d |\n", site.PropagationModel)
	fmt.Fprintf(&b, "| Receiver | %.1f m, threshold %.1f %s |\n", site.RxHeight, site.RxThreshold, output)
	fmt.Fprintf(&b, "| Reliability / confidence | %.0f%% / %.0f%% |\n", site.Reliability, site.Confidence)

	b.WriteString("\n## Coverage bounds\n\n")
	b.WriteString("| Edge | Degrees |\n|---|---|\n")
	fmt.Fprintf(&b, "| North | %.6f |\n", bounds.North)
	fmt.Fprintf(&b, "| South | %.6f |\n", bounds.South)
	fmt.Fprintf(&b, "| East | %.6f |\n", bounds.East)
	fmt.Fprintf(&b, "| West | %.6f |\n", bounds.West)

	if len(artifacts) > 0 {
		b.WriteString("\n## Artifacts\n\n")
		for _, a := range artifacts {
			fmt.Fprintf(&b, "- `%s`\n", a)
		}
	}
	return b.String()
}

// WriteHTML converts the markdown report and writes it to path
func (g *Generator) WriteHTML(path, markdown string) error {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &buf); err != nil {
		return fmt.Errorf("convert report markdown: %w", err)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Coverage report</title></head>
<body>
%s</body>
</html>
`, buf.String())

	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
