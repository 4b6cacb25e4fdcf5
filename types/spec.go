package types

import (
	"math"

	"github.com/pkg/errors"
)

// Spec 变换器设计指标, 构造后不可修改
type Spec struct {
	Vi              float64 `json:"vi" msgpack:"vi"`                   // 输入电压 [V]
	Vo              float64 `json:"vo" msgpack:"vo"`                   // 输出电压 [V]
	Po              float64 `json:"po" msgpack:"po"`                   // 输出功率 [W]
	Freq            float64 `json:"freq" msgpack:"freq"`               // 开关频率 [Hz]
	DeltaIlFraction float64 `json:"delta_il" msgpack:"delta_il"`       // 电感电流纹波比例
	DeltaVoFraction float64 `json:"delta_vo" msgpack:"delta_vo"`       // 输出电压纹波比例
	Mode            Mode    `json:"mode" msgpack:"mode"`               // 导通模式
	DutyFraction    float64 `json:"duty_fraction" msgpack:"duty_frac"` // 降压 DCM 占空比比例 (0,1], 0 表示默认值
	DCMDerating     float64 `json:"dcm_derating" msgpack:"derating"`   // 升降压 DCM 降额系数 (0,1], 0 表示默认值
}

// Validate 检查输入参数, 所有量必须为正的有限值
func (s Spec) Validate() error {
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"vi", s.Vi},
		{"vo", s.Vo},
		{"po", s.Po},
		{"freq", s.Freq},
		{"deltaIl", s.DeltaIlFraction},
		{"deltaVo", s.DeltaVoFraction},
	} {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return errors.Wrapf(ErrInvalidSpecification, "%s 必须为正数, 实际 %v", p.name, p.value)
		}
	}
	if s.Mode != CCM && s.Mode != DCM {
		return errors.Wrapf(ErrInvalidSpecification, "未知导通模式: %d", s.Mode)
	}
	if s.DutyFraction < 0 || s.DutyFraction > 1 || math.IsNaN(s.DutyFraction) {
		return errors.Wrapf(ErrInvalidSpecification, "占空比比例必须在 (0,1] 内, 实际 %v", s.DutyFraction)
	}
	if s.DCMDerating < 0 || s.DCMDerating > 1 || math.IsNaN(s.DCMDerating) {
		return errors.Wrapf(ErrInvalidSpecification, "DCM 降额系数必须在 (0,1] 内, 实际 %v", s.DCMDerating)
	}
	return nil
}

// DutyFractionOrDefault 返回占空比比例, 未设置时使用默认值
func (s Spec) DutyFractionOrDefault() float64 {
	if s.DutyFraction == 0 {
		return DefaultDutyFraction
	}
	return s.DutyFraction
}

// DCMDeratingOrDefault 返回降额系数, 未设置时使用默认值
func (s Spec) DCMDeratingOrDefault() float64 {
	if s.DCMDerating == 0 {
		return DefaultDCMDerating
	}
	return s.DCMDerating
}

// Finite 检查计算结果是否为有限值
func Finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Wrapf(ErrArithmeticFault, "%s 不是有限值: %v", name, v)
	}
	return nil
}

// Positive 检查计算结果是否为正的有限值
func Positive(name string, v float64) error {
	if err := Finite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return errors.Wrapf(ErrArithmeticFault, "%s 必须为正数, 实际 %v", name, v)
	}
	return nil
}
