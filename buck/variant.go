package buck

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dcdc/types"
	"dcdc/waveform"
)

// variant 导通模式相关的计算
type variant interface {
	duty(spec types.Spec) float64                                           // 占空比
	init(m *Model)                                                          // 构造后的模式相关初始化
	bounds(m *Model) (hi, lo float64)                                       // 电感电流上下限
	inductance(m *Model) float64                                            // 电感
	capacitance(m *Model) (float64, error)                                  // 电容
	segments(m *Model, q types.Quantity, s types.Signal) []waveform.Segment // 一个周期的线性段
	stress(m *Model) types.Stress                                           // 器件应力
}

// variantOf 按模式选择实现
func variantOf(mode types.Mode) variant {
	if mode == types.DCM {
		return dcm{}
	}
	return ccm{}
}

// ccm 连续导通模式
type ccm struct{}

func (ccm) duty(spec types.Spec) float64 { return spec.Vo / spec.Vi }

func (ccm) init(*Model) {}

func (ccm) bounds(m *Model) (hi, lo float64) {
	st := m.state
	return st.Io + 0.5*st.DeltaIl, st.Io - 0.5*st.DeltaIl
}

func (ccm) inductance(m *Model) float64 {
	sp, st := m.spec, m.state
	return (sp.Vi - sp.Vo) / st.DeltaIl * st.OnTime
}

func (ccm) capacitance(m *Model) (float64, error) {
	st := m.state
	return st.DeltaIl / (8 * m.spec.Freq * st.DeltaVo), nil
}

func (ccm) segments(m *Model, q types.Quantity, s types.Signal) []waveform.Segment {
	sp, st := m.spec, m.state
	dt, t := st.OnTime, st.Period
	switch {
	case q == types.Inductor && s == types.Current:
		return []waveform.Segment{waveform.Ramp(0, dt, st.IlMin, st.IlMax), waveform.Ramp(dt, t, st.IlMax, st.IlMin)}
	case q == types.Inductor && s == types.Voltage:
		return []waveform.Segment{waveform.Flat(0, dt, sp.Vi-sp.Vo), waveform.Flat(dt, t, -sp.Vo)}
	case q == types.Diode && s == types.Current:
		return []waveform.Segment{waveform.Flat(0, dt, 0), waveform.Ramp(dt, t, st.IlMax, st.IlMin)}
	case q == types.Diode && s == types.Voltage:
		return []waveform.Segment{waveform.Flat(0, dt, sp.Vi), waveform.Flat(dt, t, 0)}
	case q == types.Switch && s == types.Current:
		return []waveform.Segment{waveform.Ramp(0, dt, st.IlMin, st.IlMax), waveform.Flat(dt, t, 0)}
	case q == types.Switch && s == types.Voltage:
		return []waveform.Segment{waveform.Flat(0, dt, 0), waveform.Flat(dt, t, sp.Vi)}
	}
	return nil
}

func (ccm) stress(m *Model) types.Stress {
	sp, st := m.spec, m.state
	return types.Stress{
		DiodeVoltageMax:  sp.Vi,
		DiodeCurrentAvg:  st.Io * (1 - st.Duty),
		DiodeCurrentMax:  st.IlMax,
		SwitchVoltageMax: sp.Vi,
		SwitchCurrentRms: math.Sqrt(waveform.SquareIntegral(st.OnTime, st.IlMin, st.IlMax) / st.Period),
		SwitchCurrentMax: st.IlMax,
	}
}

// dcm 断续导通模式, 占空比为 CCM 占空比的一部分
type dcm struct{}

func (dcm) duty(spec types.Spec) float64 {
	return spec.Vo / spec.Vi * spec.DutyFractionOrDefault()
}

// init 计算电感电流归零时刻 tx, 超出周期时仅记录警告
func (dcm) init(m *Model) {
	st := &m.state
	st.Tx = m.spec.Vi * st.OnTime / m.spec.Vo
	if st.Tx <= st.OnTime || st.Tx > st.Period*(1+types.Tolerance) {
		logrus.WithFields(logrus.Fields{
			"converter": m.name,
			"tx":        st.Tx,
			"period":    st.Period,
		}).Warn("电感电流归零时刻不在 (DT, T) 内, 指标可能无法实现")
	}
}

func (dcm) bounds(m *Model) (hi, lo float64) {
	sp, st := m.spec, m.state
	return (sp.Vi - sp.Vo) * st.OnTime / st.Inductance, 0
}

func (dcm) inductance(m *Model) float64 {
	sp, st := m.spec, m.state
	return (sp.Vi / sp.Vo) * ((sp.Vi - sp.Vo) / st.Io) * (st.Duty * st.Duty * st.Period / 2)
}

func (dcm) capacitance(m *Model) (float64, error) {
	sp, st := m.spec, m.state
	if !st.InductorSized {
		return 0, errors.Wrapf(types.ErrUnsizedComponent, "%s 电容计算需要先计算电感", m.name)
	}
	return (st.Period / (4 * st.DeltaVo)) * ((sp.Vi-sp.Vo)*st.Duty*st.Period/st.Inductance - st.Io), nil
}

func (dcm) segments(m *Model, q types.Quantity, s types.Signal) []waveform.Segment {
	sp, st := m.spec, m.state
	dt, t := st.OnTime, st.Period
	tx := math.Min(st.Tx, t)
	switch {
	case q == types.Inductor && s == types.Current:
		return []waveform.Segment{
			waveform.Ramp(0, dt, 0, st.IlMax),
			waveform.Ramp(dt, tx, st.IlMax, 0),
			waveform.Flat(tx, t, 0),
		}
	case q == types.Inductor && s == types.Voltage:
		return []waveform.Segment{
			waveform.Flat(0, dt, sp.Vi-sp.Vo),
			waveform.Flat(dt, tx, -sp.Vo),
			waveform.Flat(tx, t, 0),
		}
	case q == types.Diode && s == types.Current:
		return []waveform.Segment{
			waveform.Flat(0, dt, 0),
			waveform.Ramp(dt, tx, st.IlMax, 0),
			waveform.Flat(tx, t, 0),
		}
	case q == types.Diode && s == types.Voltage:
		return []waveform.Segment{
			waveform.Flat(0, dt, sp.Vi),
			waveform.Flat(dt, tx, 0),
			waveform.Flat(tx, t, sp.Vo),
		}
	case q == types.Switch && s == types.Current:
		return []waveform.Segment{waveform.Ramp(0, dt, 0, st.IlMax), waveform.Flat(dt, t, 0)}
	case q == types.Switch && s == types.Voltage:
		return []waveform.Segment{
			waveform.Flat(0, dt, 0),
			waveform.Flat(dt, tx, sp.Vi),
			waveform.Flat(tx, t, sp.Vi-sp.Vo),
		}
	}
	return nil
}

func (dcm) stress(m *Model) types.Stress {
	sp, st := m.spec, m.state
	tx := math.Min(st.Tx, st.Period)
	return types.Stress{
		DiodeVoltageMax:  sp.Vi,
		DiodeCurrentAvg:  st.IlMax * (tx - st.OnTime) / (2 * st.Period),
		DiodeCurrentMax:  st.IlMax,
		SwitchVoltageMax: sp.Vi,
		SwitchCurrentRms: math.Sqrt(waveform.SquareIntegral(st.OnTime, 0, st.IlMax) / st.Period),
		SwitchCurrentMax: st.IlMax,
	}
}
