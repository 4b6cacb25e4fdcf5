// Package charts 使用 go-echarts 将波形渲染为网页.
package charts

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/sirupsen/logrus"

	"dcdc"
	dtypes "dcdc/types"
	"dcdc/waveform"
)

// Charts 波形曲线页面
type Charts struct {
	Reports []*dcdc.Report
	// 为空时绘制全部元件
	Quantities []dtypes.Quantity
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	quantities := c.Quantities
	if len(quantities) == 0 {
		quantities = dtypes.Quantities
	}
	page := components.NewPage()
	page.PageTitle = "变换器波形"
	page.SetLayout(components.PageFlexLayout)
	for _, r := range c.Reports {
		for _, q := range quantities {
			panels, err := r.Plot(q)
			if err != nil {
				return err
			}
			for i := range panels.Grid {
				for _, wave := range panels.Grid[i] {
					page.AddCharts(NewLine(wave, panels.Modes[i]))
				}
			}
		}
	}
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(w); err != nil {
		c.Error(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (c *Charts) Error(err error) { logrus.WithError(err).Error("渲染波形页面失败") }

// NewLine 单个波形的折线图, 横轴为时间数值轴
func NewLine(wave dtypes.Waveform, mode dtypes.Mode) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "600px",
			Height: "360px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    wave.Title(mode),
			Subtitle: fmt.Sprintf("%s 两个开关周期  平均值 %.3f  有效值 %.3f", wave.Label, waveform.Average(wave), waveform.RMS(wave)),
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:  "scroll",
			Right: "10",
			Top:   "20",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "t [s]",
			Min:  wave.Start(),
			Max:  wave.End(),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Name:  wave.YLabel(),
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(false),
	)
	items := make([]opts.LineData, wave.Len())
	for i, p := range wave.Points {
		items[i] = opts.LineData{Value: []float64{p.T, p.V}}
	}
	line.AddSeries(wave.Label, items,
		charts.WithLineChartOpts(opts.LineChart{
			ShowSymbol: opts.Bool(false),
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Width: 2,
		}),
	)
	return line
}
