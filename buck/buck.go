// Package buck 降压变换器稳态参数计算.
//
// 构造时根据导通模式选定 CCM 或 DCM 实现, 之后所有计算都委托给该实现,
// 不再在各个方法中判断模式.
package buck

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

// Model 降压变换器
type Model struct {
	name  string
	spec  types.Spec
	state types.State
	mode  variant
}

// New 构造并依次计算电感与电容, 返回完整的模型
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

// NewUnsized 构造模型, 电感与电容保持占位值, 需要调用 SizeInductor 与 SizeCapacitor
func NewUnsized(spec types.Spec) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		name: fmt.Sprintf("%s %s", types.Buck, spec.Mode),
		spec: spec,
		mode: variantOf(spec.Mode),
	}
	s := &m.state
	s.Period = 1 / spec.Freq
	s.Duty = m.mode.duty(spec)
	if !(s.Duty > 0 && s.Duty < 1) {
		return nil, errors.Wrapf(types.ErrArithmeticFault, "%s 占空比 %v 超出 (0,1), 检查 vo < vi", m.name, s.Duty)
	}
	s.OnTime = s.Duty * s.Period
	s.Io = spec.Po / spec.Vo
	s.Ii = spec.Po / spec.Vi
	s.Il = s.Io
	s.Res = spec.Po / (s.Io * s.Io)
	s.DeltaIl = spec.DeltaIlFraction * s.Io
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
	if err := types.Finite("iLmax", hi); err != nil {
		return errors.WithMessage(err, m.name)
	}
	if err := types.Finite("iLmin", lo); err != nil {
		return errors.WithMessage(err, m.name)
	}
	if lo < 0 || hi < lo {
		return errors.Wrapf(types.ErrArithmeticFault, "%s 电感电流范围无效: iLmin=%v iLmax=%v", m.name, lo, hi)
	}
	m.state.IlMax, m.state.IlMin = hi, lo
	return nil
}

// SizeInductor 计算满足纹波要求的电感, DCM 下随后更新 iLmax
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

// SizeCapacitor 计算满足输出纹波要求的电容.
// DCM 公式依赖电感, 未先调用 SizeInductor 时返回 ErrUnsizedComponent.
func (m *Model) SizeCapacitor() error {
	c, err := m.mode.capacitance(m)
	if err != nil {
		return err
	}
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
func (m *Model) Family() types.Family { return types.Buck }

// Mode 导通模式
func (m *Model) Mode() types.Mode { return m.spec.Mode }

// Spec 设计指标
func (m *Model) Spec() types.Spec { return m.spec }

// State 派生参数
func (m *Model) State() types.State { return m.state }

// Stress 器件应力
func (m *Model) Stress() (types.Stress, error) {
	if !m.state.Sized() {
		return types.Stress{}, errors.Wrapf(types.ErrUnsizedComponent, "%s", m.name)
	}
	return m.mode.stress(m), nil
}

// Info 报告字段
func (m *Model) Info() []types.Field {
	sp, st := m.spec, m.state
	fields := []types.Field{
		{Key: "Vi", Value: sp.Vi, Unit: "V"},
		{Key: "Vo", Value: sp.Vo, Unit: "V"},
		{Key: "Po", Value: sp.Po, Unit: "W"},
		{Key: "Io", Value: st.Io, Unit: "A"},
		{Key: "Ii", Value: st.Ii, Unit: "A"},
		{Key: "Freq", Value: sp.Freq, Unit: "Hz", Format: types.Scientific},
		{Key: "T", Value: st.Period, Unit: "s", Format: types.Scientific},
		{Key: "D", Value: st.Duty, Unit: "%", Format: types.Percent},
		{Key: "DT", Value: st.OnTime, Unit: "s", Format: types.Scientific},
		{Key: "deltaIl", Value: st.DeltaIl, Unit: "A"},
		{Key: "deltaVo", Value: st.DeltaVo, Unit: "V"},
		{Key: "R", Value: st.Res, Unit: "Ohm", Format: types.Scientific},
		{Key: "L", Value: st.Inductance, Unit: "H", Format: types.Scientific},
		{Key: "C", Value: st.Capacitance, Unit: "F", Format: types.Scientific},
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
// 电容与电阻波形由电感电流波形组合得到.
func (m *Model) Waveform(q types.Quantity, s types.Signal) (types.Waveform, error) {
	if err := waveform.Check(q, s); err != nil {
		return types.Waveform{}, err
	}
	if !m.state.Sized() {
		return types.Waveform{}, errors.Wrapf(types.ErrUnsizedComponent, "%s 波形需要先计算电感与电容", m.name)
	}
	st := m.state
	switch q {
	case types.Capacitor:
		il := m.build(types.Inductor, types.Current)
		if s == types.Current {
			return waveform.Offset(il, types.Capacitor, -st.Io), nil
		}
		return waveform.Constant(il, types.Capacitor, types.Voltage, st.Io*st.Res), nil
	case types.Resistor:
		il := m.build(types.Inductor, types.Current)
		if s == types.Current {
			return waveform.Constant(il, types.Resistor, types.Current, st.Io), nil
		}
		return waveform.Constant(il, types.Resistor, types.Voltage, st.Io*st.Res), nil
	}
	return m.build(q, s), nil
}

// build 由线性段构造开关管, 二极管, 电感波形
func (m *Model) build(q types.Quantity, s types.Signal) types.Waveform {
	return waveform.Build(q, s, m.name, m.state.Period, types.Periods, m.mode.segments(m, q, s)...)
}
