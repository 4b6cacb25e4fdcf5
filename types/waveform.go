package types

import (
	"fmt"
	"io"
	"sort"
)

// Point 波形断点
type Point struct {
	T float64 `json:"t" msgpack:"t"` // 时间 [s]
	V float64 `json:"v" msgpack:"v"` // 数值 [A] 或 [V]
}

// Waveform 理想波形, 由断点按时间排序组成.
// 跳变以两个同一时刻的断点表示: 先左极限, 后进入新区间的值.
type Waveform struct {
	Quantity Quantity `json:"quantity" msgpack:"quantity"` // 元件
	Signal   Signal   `json:"signal" msgpack:"signal"`     // 信号
	Label    string   `json:"label" msgpack:"label"`       // 图例 (变换器名称)
	Points   []Point  `json:"points" msgpack:"points"`     // 断点
}

// Len 断点数量
func (w Waveform) Len() int { return len(w.Points) }

// XY 返回横纵坐标数组
func (w Waveform) XY() (xs, ys []float64) {
	xs = make([]float64, len(w.Points))
	ys = make([]float64, len(w.Points))
	for i, p := range w.Points {
		xs[i], ys[i] = p.T, p.V
	}
	return xs, ys
}

// Start 起始时间
func (w Waveform) Start() float64 {
	if len(w.Points) == 0 {
		return 0
	}
	return w.Points[0].T
}

// End 结束时间
func (w Waveform) End() float64 {
	if len(w.Points) == 0 {
		return 0
	}
	return w.Points[len(w.Points)-1].T
}

// At 返回 t 时刻进入区间的值, 断点之间线性插值
func (w Waveform) At(t float64) float64 {
	n := len(w.Points)
	if n == 0 {
		return 0
	}
	// 第一个时间大于 t 的断点
	i := sort.Search(n, func(i int) bool { return w.Points[i].T > t })
	switch {
	case i == 0:
		return w.Points[0].V
	case i == n:
		return w.Points[n-1].V
	}
	a, b := w.Points[i-1], w.Points[i]
	if a.T == t {
		return a.V
	}
	return a.V + (b.V-a.V)*(t-a.T)/(b.T-a.T)
}

// Title 图表标题, 如 "电感电流 - CCM"
func (w Waveform) Title(mode Mode) string {
	return fmt.Sprintf("%s%s - %s", w.Quantity.Title(), w.Signal.Title(), mode)
}

// YLabel 纵轴标签, 如 "I_L [A]"
func (w Waveform) YLabel() string {
	return fmt.Sprintf("%s_%s [%s]", w.Signal.Prefix(), w.Quantity.Symbol(), w.Signal.Unit())
}

// WriteTo 以制表符分隔输出断点
func (w Waveform) WriteTo(out io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprintf(out, "# %s %s\t%s\n", w.Label, w.Quantity, w.YLabel())
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, p := range w.Points {
		n, err = fmt.Fprintf(out, "%.6e\t%.6f\n", p.T, p.V)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
