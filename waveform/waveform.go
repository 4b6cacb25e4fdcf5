// Package waveform 提供理想开关电路波形的断点构造与统计.
// 波形在一个开关周期内由若干线性段描述, 按周期重复生成多个周期的断点,
// 段与段之间数值不连续时以同一时刻的两个断点表示跳变.
package waveform

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"dcdc/types"
)

// Segment 一个开关周期内的线性段
type Segment struct {
	Start, End float64 // 起止时间 [s]
	From, To   float64 // 起止数值
}

// Flat 恒定值线性段
func Flat(start, end, v float64) Segment {
	return Segment{Start: start, End: end, From: v, To: v}
}

// Ramp 斜坡线性段
func Ramp(start, end, from, to float64) Segment {
	return Segment{Start: start, End: end, From: from, To: to}
}

// Build 将一个周期内的线性段重复 periods 次生成断点.
// 长度为零或负的段被忽略, 末尾补上 periods*period 时刻进入下一周期的值.
func Build(q types.Quantity, s types.Signal, label string, period float64, periods int, segs ...Segment) types.Waveform {
	w := types.Waveform{Quantity: q, Signal: s, Label: label}
	valid := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		if seg.End > seg.Start {
			valid = append(valid, seg)
		}
	}
	if len(valid) == 0 || periods <= 0 {
		return w
	}
	w.Points = make([]types.Point, 0, 2*len(valid)*periods+1)
	for k := 0; k < periods; k++ {
		offset := float64(k) * period
		for _, seg := range valid {
			w.Points = appendPoint(w.Points, types.Point{T: offset + seg.Start, V: seg.From})
			w.Points = appendPoint(w.Points, types.Point{T: offset + seg.End, V: seg.To})
		}
	}
	w.Points = appendPoint(w.Points, types.Point{T: float64(periods) * period, V: valid[0].From})
	return w
}

// appendPoint 追加断点, 与上一个断点完全相同时跳过
func appendPoint(points []types.Point, p types.Point) []types.Point {
	if n := len(points); n > 0 && points[n-1] == p {
		return points
	}
	return append(points, p)
}

// Offset 返回所有断点数值加上 c 的新波形
func Offset(w types.Waveform, q types.Quantity, c float64) types.Waveform {
	xs, ys := w.XY()
	floats.AddConst(c, ys)
	out := types.Waveform{Quantity: q, Signal: w.Signal, Label: w.Label, Points: make([]types.Point, len(xs))}
	for i := range xs {
		out.Points[i] = types.Point{T: xs[i], V: ys[i]}
	}
	return out
}

// Constant 返回与 w 时间轴相同的恒定波形
func Constant(w types.Waveform, q types.Quantity, s types.Signal, v float64) types.Waveform {
	out := types.Waveform{Quantity: q, Signal: s, Label: w.Label}
	if len(w.Points) == 0 {
		return out
	}
	out.Points = make([]types.Point, 0, len(w.Points))
	for _, p := range w.Points {
		out.Points = appendPoint(out.Points, types.Point{T: p.T, V: v})
	}
	return out
}

// Peak 最大值
func Peak(w types.Waveform) float64 {
	if len(w.Points) == 0 {
		return 0
	}
	_, ys := w.XY()
	return floats.Max(ys)
}

// Valley 最小值
func Valley(w types.Waveform) float64 {
	if len(w.Points) == 0 {
		return 0
	}
	_, ys := w.XY()
	return floats.Min(ys)
}

// Periodic 检查 t 与 t+period 时刻的值是否一致
func Periodic(w types.Waveform, period float64, tol float64) bool {
	for t := w.Start(); t+period <= w.End()+tol; t += period {
		if math.Abs(w.At(t)-w.At(t+period)) > tol*math.Max(1, math.Abs(w.At(t))) {
			return false
		}
	}
	return true
}

// Check 检查元件与信号是否有效
func Check(q types.Quantity, s types.Signal) error {
	if q < types.Switch || q > types.Resistor {
		return errors.Wrapf(types.ErrUnknownQuantity, "元件 %d", q)
	}
	if s != types.Current && s != types.Voltage {
		return errors.Wrapf(types.ErrUnknownQuantity, "信号 %d", s)
	}
	return nil
}
