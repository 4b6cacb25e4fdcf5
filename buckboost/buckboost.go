// Package buckboost 升降压变换器稳态参数计算.
package buckboost

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dcdc/report"
	"dcdc/types"
	"dcdc/waveform"
)

var _ types.Converter = (*Model)(nil)

// Model 升降压变换器
type Model struct {
	name  string
	spec  types.Spec
	state types.State
	mode  variant
}

// New 构造并计算电感与电容
func New(spec types.Spec) (*Model, error) {
	m, err := NewUnsized(spec)
	if err != nil {
		return nil, err
	}
	if err := m.SizeInductor(); err != nil {
		return nil, err
	}
	if err := m.SizeCapacitor(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewUnsized 构造模型, 电感与电容保持占位值
func NewUnsized(spec types.Spec) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		name: fmt.Sprintf("%s %s", types.BuckBoost, spec.Mode),
		spec: spec,
		mode: variantOf(spec.Mode),
	}
	s := &m.state
	s.Period = 1 / spec.Freq
	s.Duty = m.mode.duty(spec)
	if !(s.Duty > 0 && s.Duty < 1) {
		return nil, errors.Wrapf(types.ErrArithmeticFault, "%s 占空比 %v 超出 (0,1)", m.name, s.Duty)
	}
	s.OnTime = s.Duty * s.Period
	s.Io = spec.Po / spec.Vo
	s.Ii = spec.Po / spec.Vi
	// 能量守恒: 电感平均电流 = Io / (1-D)
	s.Il = s.Io / (1 - s.Duty)
	s.Res = spec.Po / (s.Io * s.Io)
	s.DeltaIl = spec.DeltaIlFraction * s.Il
	s.DeltaVo = spec.DeltaVoFraction * spec.Vo
	s.Inductance = types.Placeholder
	s.Capacitance = types.Placeholder
	if err := s.Check(); err != nil {
		return nil, errors.WithMessage(err, m.name)
	}
	m.mode.init(m)
	if err := m.updateBounds(); err != nil {
		return nil, err
	}
	return m, nil
}

// updateBounds 重新计算电感电流上下限
func (m *Model) updateBounds() error {
	hi, lo := m.mode.bounds(m)
	for _, v := range []struct {
		name  string
		value float64
	}{{"iLmax", hi}, {"iLmin", lo}} {
		if err := types.Finite(v.name, v.value); err != nil {
			return errors.WithMessage(err, m.name)
		}
	}
	if lo < 0 || hi < lo {
		return errors.Wrapf(types.ErrArithmeticFault, "%s 电感电流范围无效: iLmin=%v iLmax=%v", m.name, lo, hi)
	}
	m.state.IlMax, m.state.IlMin = hi, lo
	return nil
}

// SizeInductor 计算电感, DCM 下随后更新 iLmax
func (m *Model) SizeInductor() error {
	l := m.mode.inductance(m)
	if err := types.Positive("电感", l); err != nil {
		return errors.WithMessage(err, m.name)
	}
	prev := m.state
	m.state.Inductance = l
	m.state.InductorSized = true
	if err := m.updateBounds(); err != nil {
		m.state = prev
		return err
	}
	logrus.WithFields(logrus.Fields{"converter": m.name, "inductance": l, "iLmax": m.state.IlMax}).Debug("电感计算完成")
	return nil
}

// SizeCapacitor 计算电容, 两种模式使用同一公式 C = Io*D*T/deltaVo, 不依赖电感
func (m *Model) SizeCapacitor() error {
	st := m.state
	c := st.Io * st.Duty * st.Period / st.DeltaVo
	if err := types.Positive("电容", c); err != nil {
		return errors.WithMessage(err, m.name)
	}
	m.state.Capacitance = c
	m.state.CapacitorSized = true
	logrus.WithFields(logrus.Fields{"converter": m.name, "capacitance": c}).Debug("电容计算完成")
	return nil
}

// Name 名称
func (m *Model) Name() string { return m.name }

// Family 拓扑
func (m *Model) Family() types.Family { return types.BuckBoost }

// Mode 导通模式
func (m *Model) Mode() types.Mode { return m.spec.Mode }

// Spec 设计指标
func (m *Model) Spec() types.Spec { return m.spec }

// State 派生参数
func (m *Model) State() types.State { return m.state }

// Efficiency 效率, 理想模型下恒为 1
func (m *Model) Efficiency() float64 {
	return m.spec.Po / (m.spec.Vi * m.state.Ii)
}

// Stress 二极管与开关管应力
func (m *Model) Stress() (types.Stress, error) {
	if !m.state.Sized() {
		return types.Stress{}, errors.Wrapf(types.ErrUnsizedComponent, "%s", m.name)
	}
	return types.Stress{
		DiodeVoltageMax:  m.DiodeVoltageMax(),
		DiodeCurrentAvg:  m.mode.diodeCurrentAvg(m),
		DiodeCurrentMax:  m.mode.peakCurrent(m),
		SwitchVoltageMax: m.SwitchVoltageMax(),
		SwitchCurrentRms: m.mode.switchCurrentRms(m),
		SwitchCurrentMax: m.mode.peakCurrent(m),
	}, nil
}

// DiodeVoltageMax 二极管最大反向电压 Vi+Vo
func (m *Model) DiodeVoltageMax() float64 { return m.spec.Vi + m.spec.Vo }

// SwitchVoltageMax 开关管最大电压 Vi+Vo
func (m *Model) SwitchVoltageMax() float64 { return m.spec.Vi + m.spec.Vo }

// Info 报告字段
func (m *Model) Info() []types.Field {
	sp, st := m.spec, m.state
	fields := []types.Field{
		{Key: "Vi", Value: sp.Vi, Unit: "V"},
		{Key: "Vo", Value: sp.Vo, Unit: "V"},
		{Key: "Po", Value: sp.Po, Unit: "W"},
		{Key: "Io", Value: st.Io, Unit: "A"},
		{Key: "Ii", Value: st.Ii, Unit: "A"},
		{Key: "eta", Value: m.Efficiency(), Unit: "%", Format: types.Percent},
		{Key: "Freq", Value: sp.Freq, Unit: "Hz", Format: types.Scientific},
		{Key: "T", Value: st.Period, Unit: "s", Format: types.Scientific},
		{Key: "D", Value: st.Duty, Unit: "%", Format: types.Percent},
		{Key: "DT", Value: st.OnTime, Unit: "s", Format: types.Scientific},
		{Key: "deltaIl", Value: st.DeltaIl, Unit: "A"},
		{Key: "deltaVo", Value: st.DeltaVo, Unit: "V"},
		{Key: "R", Value: st.Res, Unit: "Ohm", Format: types.Scientific},
		{Key: "L", Value: st.Inductance, Unit: "H", Format: types.Scientific},
		{Key: "C", Value: st.Capacitance, Unit: "F", Format: types.Scientific},
		{Key: "iL", Value: st.Il, Unit: "A"},
		{Key: "iLmax", Value: st.IlMax, Unit: "A"},
		{Key: "iLmin", Value: st.IlMin, Unit: "A"},
	}
	if sp.Mode == types.DCM {
		fields = append(fields, types.Field{Key: "tx", Value: st.Tx, Unit: "s", Format: types.Scientific})
	}
	return fields
}

// Report 输出文本报告
func (m *Model) Report(w io.Writer) error { return report.Write(w, m) }

// Waveform 生成两个开关周期的波形断点.
// 电容电流由二极管电流减去 Io 得到, 电阻电压与电容电压相同.
func (m *Model) Waveform(q types.Quantity, s types.Signal) (types.Waveform, error) {
	if err := waveform.Check(q, s); err != nil {
		return types.Waveform{}, err
	}
	if !m.state.Sized() {
		return types.Waveform{}, errors.Wrapf(types.ErrUnsizedComponent, "%s 波形需要先计算电感与电容", m.name)
	}
	st := m.state
	switch {
	case q == types.Capacitor && s == types.Current:
		return waveform.Offset(m.build(types.Diode, types.Current), types.Capacitor, -st.Io), nil
	case q == types.Resistor && s == types.Current:
		return waveform.Constant(m.build(types.Diode, types.Current), types.Resistor, types.Current, st.Io), nil
	}
	return m.build(q, s), nil
}

func (m *Model) build(q types.Quantity, s types.Signal) types.Waveform {
	return waveform.Build(q, s, m.name, m.state.Period, types.Periods, m.mode.segments(m, q, s)...)
}
