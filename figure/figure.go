// Package figure 使用 gonum/plot 将四个子图绘制为 PNG 或 SVG 图片.
package figure

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"dcdc"
	"dcdc/types"
	"dcdc/waveform"
)

// Format 图片格式
type Format string

// 图片格式定义
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat 通过名称获取图片格式
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case PNG, SVG:
		return f, nil
	}
	return "", errors.Errorf("未知图片格式: %s", name)
}

// Config 绘图参数
type Config struct {
	Width    vg.Length // 图片宽度
	Height   vg.Length // 图片高度
	FontSize vg.Length // 标题字号
	Format   Format    // 图片格式
}

// DefaultConfig 默认绘图参数
func DefaultConfig() Config {
	return Config{
		Width:    12 * vg.Inch,
		Height:   8 * vg.Inch,
		FontSize: vg.Points(12),
		Format:   PNG,
	}
}

// 线条颜色: 电流蓝色, 电压红色
var signalColor = map[types.Signal]color.Color{
	types.Current: color.RGBA{R: 0x19, G: 0x87, B: 0xc7, A: 0xff},
	types.Voltage: color.RGBA{R: 0xc7, G: 0x19, B: 0x79, A: 0xff},
}

// Render 绘制 2x2 子图并写入 w
func Render(w io.Writer, panels *dcdc.Panels, cfg Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.Errorf("图片尺寸无效: %v x %v", cfg.Width, cfg.Height)
	}
	plots := make([][]*plot.Plot, 2)
	for i := range panels.Grid {
		plots[i] = make([]*plot.Plot, 2)
		for j, wave := range panels.Grid[i] {
			p, err := newPlot(wave, panels.Modes[i], cfg)
			if err != nil {
				return err
			}
			plots[i][j] = p
		}
	}
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	switch cfg.Format {
	case SVG:
		c := vgsvg.New(cfg.Width, cfg.Height)
		drawTiles(plots, tiles, draw.New(c))
		_, err := c.WriteTo(w)
		return errors.Wrap(err, "写入 SVG 失败")
	case PNG, "":
		c := vgimg.New(cfg.Width, cfg.Height)
		drawTiles(plots, tiles, draw.New(c))
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
		return errors.Wrap(err, "写入 PNG 失败")
	}
	return errors.Errorf("未知图片格式: %s", cfg.Format)
}

func drawTiles(plots [][]*plot.Plot, tiles draw.Tiles, dc draw.Canvas) {
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}
}

// newPlot 单个子图, 横轴为时间
func newPlot(wave types.Waveform, mode types.Mode, cfg Config) (*plot.Plot, error) {
	if wave.Len() == 0 {
		return nil, errors.Errorf("%s %s %s 波形为空", wave.Label, wave.Quantity, wave.Signal)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s - %s", wave.Quantity, wave.Signal, mode)
	p.Title.TextStyle.Font.Size = cfg.FontSize
	p.X.Label.Text = "t [s]"
	p.Y.Label.Text = wave.YLabel()
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, wave.Len())
	for i, pt := range wave.Points {
		pts[i].X, pts[i].Y = pt.T, pt.V
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "生成曲线失败")
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = signalColor[wave.Signal]
	p.Add(line)
	p.Legend.Add(wave.Label, line)
	p.Legend.Top = true

	// 纵轴留出余量, 避免水平线贴边
	lo, hi := waveform.Valley(wave), waveform.Peak(wave)
	pad := 0.1 * (hi - lo)
	if pad == 0 {
		pad = 0.1*math.Abs(hi) + 1
	}
	p.Y.Min, p.Y.Max = lo-pad, hi+pad
	return p, nil
}
