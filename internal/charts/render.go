package charts

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/socialstats-cli/internal/utils"
)

// Output file names.
const (
	EngagementFile = "engagement_inequality.png"
	AdvertFile     = "advertising_scale.png"
	TopicsFile     = "political_topics.png"
	PlatformFile   = "platform_comparison.png"
)

// Bins is the histogram bin count.
const Bins = 50

// DPI of the written images.
const DPI = 150

var (
	blue   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	orange = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	green  = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	steel  = color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}
	red    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// Render writes the four charts into dir and returns their paths.
func Render(dir string, d *Data) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	steps := []struct {
		file string
		fn   func(string, *Data) error
	}{
		{EngagementFile, renderEngagement},
		{AdvertFile, renderAdvertising},
		{TopicsFile, renderTopics},
		{PlatformFile, renderPlatforms},
	}
	var out []string
	for _, s := range steps {
		path := filepath.Join(dir, s.file)
		if err := s.fn(path, d); err != nil {
			return out, fmt.Errorf("render %s: %w", s.file, err)
		}
		out = append(out, path)
	}
	return out, nil
}

func renderEngagement(path string, d *Data) error {
	fb, err := histogram("Facebook Posts: Engagement Inequality", "Log10(Likes)", "Number of Posts", d.FBLogLikes, blue)
	if err != nil {
		return err
	}
	tw, err := histogram("Twitter Posts: Engagement Inequality", "Log10(Likes)", "Number of Posts", d.TWLogLikes, orange)
	if err != nil {
		return err
	}
	return saveGrid(path, 30*vg.Centimeter, 12*vg.Centimeter, [][]*plot.Plot{{fb, tw}})
}

func renderAdvertising(path string, d *Data) error {
	top := plot.New()
	top.Title.Text = fmt.Sprintf("Political Advertising Dominance: Top %d Advertisers by Volume", TopAdvertisers)
	top.X.Label.Text = "Number of Ads"
	top.Add(plotter.NewGrid())
	if len(d.TopBylines) > 0 {
		// largest at the top
		n := len(d.TopBylines)
		vals := make(plotter.Values, n)
		names := make([]string, n)
		for i, b := range d.TopBylines {
			vals[n-1-i] = b.Value
			names[n-1-i] = b.Label
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(12))
		if err != nil {
			return err
		}
		bars.Horizontal = true
		bars.Color = steel
		bars.LineStyle.Width = 0
		top.Add(bars)
		top.NominalY(names...)
	}

	spend, err := histogram(
		fmt.Sprintf("Ad Spending Distribution (Total: %s | Average: %s)", Money(d.SpendTotal), Money(d.SpendMean)),
		"Estimated Spend ($)", "Number of Ads", d.Spend, green)
	if err != nil {
		return err
	}
	if len(d.Spend) > 0 {
		line, err := plotter.NewLine(plotter.XYs{{X: d.SpendMean, Y: 0}, {X: d.SpendMean, Y: spend.Y.Max}})
		if err != nil {
			return err
		}
		line.Color = red
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		spend.Add(line)
		spend.Legend.Add("Average: "+Money(d.SpendMean), line)
		spend.Legend.Top = true
	}
	return saveGrid(path, 28*vg.Centimeter, 20*vg.Centimeter, [][]*plot.Plot{{top}, {spend}})
}

func renderTopics(path string, d *Data) error {
	p := plot.New()
	p.Title.Text = "Political Topic Focus Across Platforms"
	p.X.Label.Text = "Political Topics"
	p.Y.Label.Text = "Percentage of Content (%)"
	p.Add(plotter.NewGrid())
	if len(d.Topics) > 0 {
		series := []struct {
			name string
			get  func(TopicShare) float64
		}{
			{"Facebook Ads", func(t TopicShare) float64 { return t.Ads }},
			{"Facebook Posts", func(t TopicShare) float64 { return t.Posts }},
			{"Twitter", func(t TopicShare) float64 { return t.Twitter }},
		}
		w := vg.Points(8)
		names := make([]string, len(d.Topics))
		for i, t := range d.Topics {
			names[i] = t.Topic
		}
		for j, s := range series {
			vals := make(plotter.Values, len(d.Topics))
			for i, t := range d.Topics {
				vals[i] = s.get(t)
			}
			bars, err := plotter.NewBarChart(vals, w)
			if err != nil {
				return err
			}
			bars.Color = plotutil.Color(j)
			bars.LineStyle.Width = 0
			bars.Offset = w * vg.Length(j-1)
			p.Add(bars)
			p.Legend.Add(s.name, bars)
		}
		p.Legend.Top = true
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return saveGrid(path, 32*vg.Centimeter, 16*vg.Centimeter, [][]*plot.Plot{{p}})
}

func renderPlatforms(path string, d *Data) error {
	vol, err := barPlot("Content Volume by Platform", "Number of Posts/Ads", d.Volumes, []color.Color{blue, orange, green})
	if err != nil {
		return err
	}
	eng, err := barPlot("Average Engagement by Platform", "Average Interactions/Likes", d.Engagement, []color.Color{blue, green})
	if err != nil {
		return err
	}
	return saveGrid(path, 32*vg.Centimeter, 12*vg.Centimeter, [][]*plot.Plot{{vol, eng}})
}

func histogram(title, xLabel, yLabel string, vals []float64, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	if len(vals) == 0 {
		p.Title.Text += " (no data)"
		return p, nil
	}
	h, err := plotter.NewHist(plotter.Values(vals), Bins)
	if err != nil {
		return nil, err
	}
	h.FillColor = c
	p.Add(h)
	return p, nil
}

// barPlot draws one vertical bar per entry, each in its own color.
func barPlot(title, yLabel string, bars []Bar, colors []color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	w := vg.Points(40)
	names := make([]string, len(bars))
	for i, b := range bars {
		names[i] = b.Label
		vals := make(plotter.Values, len(bars))
		vals[i] = b.Value
		bc, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return nil, err
		}
		bc.Color = colors[i%len(colors)]
		bc.LineStyle.Width = 0
		p.Add(bc)
	}
	p.NominalX(names...)
	return p, nil
}

// saveGrid lays plots out in rows and columns on one image and writes it as PNG.
func saveGrid(path string, w, h vg.Length, plots [][]*plot.Plot) error {
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(DPI))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j, p := range plots[i] {
			p.Draw(canvases[i][j])
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
