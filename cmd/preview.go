package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/pneumo-sim/road-input/road"
	"github.com/pneumo-sim/road-input/road/engine"
)

var (
	previewDuration float64 // Seconds to preview
	previewDt       float64 // Sample step in seconds
	previewPNG      string  // Output chart path
)

// Chart size and resolution.
const (
	previewWidth  = 10 * vg.Inch
	previewHeight = 5 * vg.Inch
	previewDPI    = 150
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the per-wheel excitation of a road as a PNG chart",
	Run: func(cmd *cobra.Command, args []string) {
		r := configuredRoadInput()
		p, err := r.ProfilePreview(previewDuration, previewDt)
		if err != nil {
			logrus.Fatalf("Preview failed: %v", err)
		}
		params, err := r.Params()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		title := fmt.Sprintf("%s road at %.1f m/s", params.Source, params.Velocity)
		if params.PresetName != "" {
			title = fmt.Sprintf("%s (%s)", params.PresetName, title)
		}
		if err := savePreviewPNG(p, title, previewPNG); err != nil {
			logrus.Fatalf("Failed to write chart: %v", err)
		}
		logrus.Infof("Wrote %d-sample preview to %s", len(p.Time), previewPNG)
	},
}

// previewPlot draws one line per wheel, displacement in millimetres.
func previewPlot(p *engine.Preview, title string) (*plot.Plot, error) {
	if len(p.Time) == 0 {
		return nil, fmt.Errorf("preview has no samples")
	}
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "time (s)"
	pl.Y.Label.Text = "road displacement (mm)"
	pl.Add(plotter.NewGrid())
	pl.Legend.Top = true

	for i, w := range road.Wheels {
		y := p.Wheels[w]
		pts := make(plotter.XYs, len(p.Time))
		for k := range p.Time {
			pts[k].X = p.Time[k]
			pts[k].Y = y[k] * 1000
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("wheel %s: %w", w, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		if w.IsRear() {
			line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		}
		pl.Add(line)
		pl.Legend.Add(string(w), line)
	}
	return pl, nil
}

// savePreviewPNG renders the preview and writes it to path, creating parent
// directories as needed.
func savePreviewPNG(p *engine.Preview, title, path string) error {
	pl, err := previewPlot(p, title)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}
	c := vgimg.NewWith(vgimg.UseWH(previewWidth, previewHeight), vgimg.UseDPI(previewDPI))
	pl.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func init() {
	addRoadFlags(previewCmd)
	previewCmd.Flags().Float64Var(&previewDuration, "duration", 10, "Seconds to preview")
	previewCmd.Flags().Float64Var(&previewDt, "dt", 0.01, "Sample step in seconds")
	previewCmd.Flags().StringVar(&previewPNG, "png", "road_preview.png", "Output PNG path")
	rootCmd.AddCommand(previewCmd)
}
