package buckboost

import (
	"math"

	"github.com/sirupsen/logrus"

	"dcdc/types"
	"dcdc/waveform"
)

// variant 导通模式相关的计算
type variant interface {
	duty(spec types.Spec) float64
	init(m *Model)
	bounds(m *Model) (hi, lo float64)
	inductance(m *Model) float64
	segments(m *Model, q types.Quantity, s types.Signal) []waveform.Segment
	diodeCurrentAvg(m *Model) float64
	peakCurrent(m *Model) float64
	switchCurrentRms(m *Model) float64
}

func variantOf(mode types.Mode) variant {
	if mode == types.DCM {
		return dcm{}
	}
	return ccm{}
}

// ripple 输出电压纹波三角波: 导通期间电容放电, 关断期间充电
func ripple(m *Model) []waveform.Segment {
	sp, st := m.spec, m.state
	hi, lo := sp.Vo+0.5*st.DeltaVo, sp.Vo-0.5*st.DeltaVo
	return []waveform.Segment{
		waveform.Ramp(0, st.OnTime, hi, lo),
		waveform.Ramp(st.OnTime, st.Period, lo, hi),
	}
}

type ccm struct{}

func (ccm) duty(spec types.Spec) float64 { return spec.Vo / (spec.Vi + spec.Vo) }

func (ccm) init(*Model) {}

func (ccm) bounds(m *Model) (hi, lo float64) {
	st := m.state
	return st.Il + 0.5*st.DeltaIl, st.Il - 0.5*st.DeltaIl
}

func (ccm) inductance(m *Model) float64 {
	st := m.state
	return m.spec.Vi * st.Duty * st.Period / st.DeltaIl
}

func (ccm) segments(m *Model, q types.Quantity, s types.Signal) []waveform.Segment {
	sp, st := m.spec, m.state
	dt, t := st.OnTime, st.Period
	vs := sp.Vi + sp.Vo
	switch {
	case q == types.Inductor && s == types.Current:
		return []waveform.Segment{waveform.Ramp(0, dt, st.IlMin, st.IlMax), waveform.Ramp(dt, t, st.IlMax, st.IlMin)}
	case q == types.Inductor && s == types.Voltage:
		return []waveform.Segment{waveform.Flat(0, dt, sp.Vi), waveform.Flat(dt, t, -sp.Vo)}
	case q == types.Switch && s == types.Current:
		return []waveform.Segment{waveform.Ramp(0, dt, st.IlMin, st.IlMax), waveform.Flat(dt, t, 0)}
	case q == types.Switch && s == types.Voltage:
		return []waveform.Segment{waveform.Flat(0, dt, 0), waveform.Flat(dt, t, vs)}
	case q == types.Diode && s == types.Current:
		return []waveform.Segment{waveform.Flat(0, dt, 0), waveform.Ramp(dt, t, st.IlMax, st.IlMin)}
	case q == types.Diode && s == types.Voltage:
		// 反向偏置, 取负值
		return []waveform.Segment{waveform.Flat(0, dt, -vs), waveform.Flat(dt, t, 0)}
	case s == types.Voltage:
		return ripple(m)
	}
	return nil
}

// diodeCurrentAvg (1/T) * iL * (T-DT)
func (ccm) diodeCurrentAvg(m *Model) float64 {
	st := m.state
	return st.Il * (st.Period - st.OnTime) / st.Period
}

func (ccm) peakCurrent(m *Model) float64 { return m.state.IlMax }

// switchCurrentRms sqrt((1/T) * 积分[0,DT] is(t)^2 dt), is 由 iLmin 线性上升到 iLmax.
// 与按平均电流计算的 iL*sqrt(D) 相比略大, 差值随纹波增大.
func (ccm) switchCurrentRms(m *Model) float64 {
	st := m.state
	return math.Sqrt(waveform.SquareIntegral(st.OnTime, st.IlMin, st.IlMax) / st.Period)
}

// dcm 断续导通模式, 占空比按降额系数取 CCM 占空比的一部分
type dcm struct{}

func (dcm) duty(spec types.Spec) float64 {
	return spec.DCMDeratingOrDefault() * spec.Vo / (spec.Vi + spec.Vo)
}

// init 电感电流在 DT 之后以 Vo/L 下降, 经过 Vi*DT/Vo 归零
func (dcm) init(m *Model) {
	st := &m.state
	st.Tx = st.OnTime + m.spec.Vi*st.OnTime/m.spec.Vo
	if st.Tx > st.Period*(1+types.Tolerance) {
		logrus.WithFields(logrus.Fields{
			"converter": m.name,
			"tx":        st.Tx,
			"period":    st.Period,
		}).Warn("电感电流归零时刻超出开关周期, 指标可能无法实现")
	}
}

func (dcm) bounds(m *Model) (hi, lo float64) {
	st := m.state
	return m.spec.Vi * st.OnTime / st.Inductance, 0
}

func (dcm) inductance(m *Model) float64 {
	st := m.state
	return m.spec.Vi * st.Duty * st.Duty * st.Period / (2 * st.Ii)
}

func (dcm) segments(m *Model, q types.Quantity, s types.Signal) []waveform.Segment {
	sp, st := m.spec, m.state
	dt, t := st.OnTime, st.Period
	tx := math.Min(st.Tx, t)
	vs := sp.Vi + sp.Vo
	switch {
	case q == types.Inductor && s == types.Current:
		return []waveform.Segment{
			waveform.Ramp(0, dt, 0, st.IlMax),
			waveform.Ramp(dt, tx, st.IlMax, 0),
			waveform.Flat(tx, t, 0),
		}
	case q == types.Inductor && s == types.Voltage:
		return []waveform.Segment{
			waveform.Flat(0, dt, sp.Vi),
			waveform.Flat(dt, tx, -sp.Vo),
			waveform.Flat(tx, t, 0),
		}
	case q == types.Switch && s == types.Current:
		return []waveform.Segment{waveform.Ramp(0, dt, 0, st.IlMax), waveform.Flat(dt, t, 0)}
	case q == types.Switch && s == types.Voltage:
		return []waveform.Segment{
			waveform.Flat(0, dt, 0),
			waveform.Flat(dt, tx, vs),
			waveform.Flat(tx, t, sp.Vi),
		}
	case q == types.Diode && s == types.Current:
		return []waveform.Segment{
			waveform.Flat(0, dt, 0),
			waveform.Ramp(dt, tx, st.IlMax, 0),
			waveform.Flat(tx, t, 0),
		}
	case q == types.Diode && s == types.Voltage:
		return []waveform.Segment{
			waveform.Flat(0, dt, -vs),
			waveform.Flat(dt, tx, 0),
			waveform.Flat(tx, t, -sp.Vo),
		}
	case s == types.Voltage:
		return ripple(m)
	}
	return nil
}

func (dcm) diodeCurrentAvg(m *Model) float64 { return m.state.Io }

// peakCurrent Vi*DT/L
func (dcm) peakCurrent(m *Model) float64 {
	st := m.state
	return m.spec.Vi * st.OnTime / st.Inductance
}

// switchCurrentRms Vi*DT*sqrt(D/3)/L
func (dcm) switchCurrentRms(m *Model) float64 {
	st := m.state
	return m.spec.Vi * st.OnTime * math.Sqrt(st.Duty/3) / st.Inductance
}
