package render

import (
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/simulation"
)

// 描画範囲は母数を動かしても比較できるよう固定する
const (
	PlotXMin = -11.0
	PlotXMax = 11.0
	PlotYMin = -50.0
	PlotYMax = 50.0
)

var (
	sampleColor = color.RGBA{R: 55, G: 126, B: 184, A: 128}
	fitColor    = color.RGBA{R: 255, G: 127, B: 0, A: 255}
	bandColor   = color.RGBA{R: 255, G: 127, B: 0, A: 77}
)

// LineLabel は回帰直線の凡例 "ŷ = b₀ ± |b₁|x" を返す
func LineLabel(b0, b1 float64) string {
	if b1 >= 0 {
		return "ŷ = " + Fixed2(b0) + " + " + Fixed2(b1) + "x"
	}
	return "ŷ = " + Fixed2(b0) + " - " + Fixed2(-b1) + "x"
}

// NewPlot は散布図、回帰直線、信頼帯を重ねたグラフを作る
func NewPlot(res *simulation.Result) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Legend.Top = true
	p.Legend.Left = true

	band := Band(res)
	ring := make(plotter.XYs, 0, 2*len(band))
	for _, b := range band {
		ring = append(ring, plotter.XY{X: b.X, Y: b.Lower})
	}
	for i := len(band) - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: band[i].X, Y: band[i].Upper})
	}
	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, errors.Wrap(err, "render: confidence band")
	}
	poly.Color = bandColor
	poly.LineStyle.Width = 0

	scatter, err := plotter.NewScatter(toXYs(Scatter(res)))
	if err != nil {
		return nil, errors.Wrap(err, "render: scatter")
	}
	scatter.GlyphStyle = draw.GlyphStyle{Color: sampleColor, Radius: vg.Points(2), Shape: draw.CircleGlyph{}}

	line, err := plotter.NewLine(toXYs(FittedLine(res)))
	if err != nil {
		return nil, errors.Wrap(err, "render: fitted line")
	}
	line.LineStyle.Color = fitColor
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(poly, scatter, line)
	// Add は軸をデータ範囲まで広げるので、その後で固定する
	p.X.Min, p.X.Max = PlotXMin, PlotXMax
	p.Y.Min, p.Y.Max = PlotYMin, PlotYMax
	p.Legend.Add(LineLabel(res.Coefficients[0], res.Coefficients[1]), line)
	p.Legend.Add(confidenceLabel(res.ConfidenceLevel), poly)
	return p, nil
}

func confidenceLabel(level float64) string {
	return strings.TrimSuffix(strings.TrimSuffix(Fixed2(level*100), "0"), ".0") + "% Confidence Interval"
}

func toXYs(pts []Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

// Format はグラフの出力形式
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat は "png" か "svg" を受け付ける
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", errors.NewValidationError("format", "must be png or svg", s)
	}
}

// ContentType は HTTP 応答用のメディアタイプを返す
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// WritePlot はグラフを size × size インチの正方形で w に書き出す
func WritePlot(w io.Writer, res *simulation.Result, format Format, sizeInches float64) error {
	if sizeInches <= 0 {
		return errors.NewValidationError("plot_size", "must be positive", sizeInches)
	}
	p, err := NewPlot(res)
	if err != nil {
		return err
	}
	size := vg.Length(sizeInches) * vg.Inch
	// 描画中の panic もエラーとして返す
	return errors.SafeExecute("render.WritePlot", func() error {
		wt, err := p.WriterTo(size, size, string(format))
		if err != nil {
			return errors.Wrap(err, "render: canvas")
		}
		if _, err := wt.WriteTo(w); err != nil {
			return errors.Wrap(err, "render: write plot")
		}
		return nil
	})
}
