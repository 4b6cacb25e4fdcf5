package types

// State 派生参数, 仅由元件计算方法修改
type State struct {
	Period         float64 `json:"period" msgpack:"period"`           // 开关周期 T [s]
	Duty           float64 `json:"duty" msgpack:"duty"`               // 占空比 D
	OnTime         float64 `json:"on_time" msgpack:"on_time"`         // 导通时间 DT [s]
	Io             float64 `json:"io" msgpack:"io"`                   // 输出电流 [A]
	Ii             float64 `json:"ii" msgpack:"ii"`                   // 输入电流 [A]
	Il             float64 `json:"il" msgpack:"il"`                   // 电感平均电流 [A]
	Res            float64 `json:"res" msgpack:"res"`                 // 等效负载电阻 [Ohm]
	DeltaIl        float64 `json:"delta_il" msgpack:"delta_il"`       // 电感电流纹波 [A]
	DeltaVo        float64 `json:"delta_vo" msgpack:"delta_vo"`       // 输出电压纹波 [V]
	Inductance     float64 `json:"inductance" msgpack:"inductance"`   // 电感 [H]
	Capacitance    float64 `json:"capacitance" msgpack:"capacitance"` // 电容 [F]
	IlMax          float64 `json:"il_max" msgpack:"il_max"`           // 电感电流最大值 [A]
	IlMin          float64 `json:"il_min" msgpack:"il_min"`           // 电感电流最小值 [A]
	Tx             float64 `json:"tx" msgpack:"tx"`                   // DCM 电感电流归零时刻 [s]
	InductorSized  bool    `json:"inductor_sized" msgpack:"l_sized"`  // 电感已计算
	CapacitorSized bool    `json:"capacitor_sized" msgpack:"c_sized"` // 电容已计算
}

// Sized 电感和电容是否均已计算
func (s State) Sized() bool { return s.InductorSized && s.CapacitorSized }

// Check 检查由输入直接推导的参数, 均须为正的有限值
func (s State) Check() error {
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"T", s.Period},
		{"DT", s.OnTime},
		{"io", s.Io},
		{"ii", s.Ii},
		{"iL", s.Il},
		{"res", s.Res},
		{"deltaIl", s.DeltaIl},
		{"deltaVo", s.DeltaVo},
	} {
		if err := Positive(p.name, p.value); err != nil {
			return err
		}
	}
	return nil
}

// Stress 器件应力
type Stress struct {
	DiodeVoltageMax  float64 `json:"diode_voltage_max" msgpack:"vd_max"`   // 二极管最大反向电压 [V]
	DiodeCurrentAvg  float64 `json:"diode_current_avg" msgpack:"id_avg"`   // 二极管平均电流 [A]
	DiodeCurrentMax  float64 `json:"diode_current_max" msgpack:"id_max"`   // 二极管最大电流 [A]
	SwitchVoltageMax float64 `json:"switch_voltage_max" msgpack:"vds_max"` // 开关管最大电压 [V]
	SwitchCurrentRms float64 `json:"switch_current_rms" msgpack:"ids_rms"` // 开关管电流有效值 [A]
	SwitchCurrentMax float64 `json:"switch_current_max" msgpack:"ids_max"` // 开关管最大电流 [A]
}

// Format 数值显示格式
type Format int

// 显示格式常量定义
const (
	Linear     Format = iota // 三位小数
	Scientific               // 科学计数法
	Percent                  // 百分比, 三位小数
)

// Field 报告字段
type Field struct {
	Key    string  `json:"key" msgpack:"key"`       // 名称
	Value  float64 `json:"value" msgpack:"value"`   // 数值
	Unit   string  `json:"unit" msgpack:"unit"`     // 单位
	Format Format  `json:"format" msgpack:"format"` // 显示格式
}
