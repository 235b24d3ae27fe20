package palette

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderLegend draws the ramp as a labeled bar chart and writes it as a
// PNG next to the coverage image, so map viewers can show what each
// color means.
func RenderLegend(path string, ramp []Step) error {
	bars := make([]chart.Value, 0, len(ramp))
	for _, step := range ramp {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%.0f", step.LevelDBm),
			Value: 1,
			Style: chart.Style{
				FillColor:   drawing.Color{R: step.Color.R, G: step.Color.G, B: step.Color.B, A: 255},
				StrokeColor: drawing.Color{R: 52, G: 58, B: 64, A: 255},
				StrokeWidth: 1,
			},
		})
	}

	graph := chart.BarChart{
		Title: "Received signal (dBm)",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 40,
			},
		},
		Height:   200,
		Width:    40 * len(bars),
		BarWidth: 28,
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
		},
		Bars: bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create legend %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render legend: %w", err)
	}
	return nil
}
