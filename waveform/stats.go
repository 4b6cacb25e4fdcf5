package waveform

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/integrate"

	"dcdc/types"
)

// Average 波形在 [Start, End] 上的平均值.
// 断点之间为线性, 梯形积分是精确的.
func Average(w types.Waveform) float64 {
	span := w.End() - w.Start()
	if len(w.Points) < 2 || span <= 0 {
		return 0
	}
	xs, ys := w.XY()
	return integrate.Trapezoidal(xs, ys) / span
}

// RMS 波形在 [Start, End] 上的有效值.
// 每段线性区间 a->b 的平方积分为 dt*(a*a+a*b+b*b)/3.
func RMS(w types.Waveform) float64 {
	span := w.End() - w.Start()
	if len(w.Points) < 2 || span <= 0 {
		return 0
	}
	var sum float64
	for i := 1; i < len(w.Points); i++ {
		a, b := w.Points[i-1], w.Points[i]
		sum += SquareIntegral(b.T-a.T, a.V, b.V)
	}
	return math.Sqrt(sum / span)
}

// SquareIntegral 线性段 from->to 持续 dt 时平方的定积分
func SquareIntegral(dt, from, to float64) float64 {
	return dt * (from*from + from*to + to*to) / 3
}

// Summary 波形统计量
type Summary struct {
	Average  float64 `json:"average"`  // 平均值
	RMS      float64 `json:"rms"`      // 有效值
	Peak     float64 `json:"peak"`     // 最大值
	Valley   float64 `json:"valley"`   // 最小值
	Periodic bool    `json:"periodic"` // 相邻周期一致
}

// Summarize 统计波形, period 为开关周期
func Summarize(w types.Waveform, period float64) Summary {
	return Summary{
		Average:  Average(w),
		RMS:      RMS(w),
		Peak:     Peak(w),
		Valley:   Valley(w),
		Periodic: Periodic(w, period, types.Tolerance),
	}
}

// WriteTo 以注释行输出统计量, 与 Waveform.WriteTo 的断点格式配套
func (s Summary) WriteTo(out io.Writer) (int64, error) {
	n, err := fmt.Fprintf(out, "# avg=%.6f rms=%.6f max=%.6f min=%.6f periodic=%t\n",
		s.Average, s.RMS, s.Peak, s.Valley, s.Periodic)
	return int64(n), err
}
