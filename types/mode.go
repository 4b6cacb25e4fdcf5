package types

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode 导通模式
type Mode int

// 导通模式常量定义
const (
	CCM Mode = iota // 连续导通
	DCM             // 断续导通
)

// String 返回模式名称
func (m Mode) String() string {
	switch m {
	case CCM:
		return "CCM"
	case DCM:
		return "DCM"
	}
	return "Unknown"
}

// ParseMode 通过名称获取模式
func ParseMode(name string) (Mode, error) {
	switch strings.ToUpper(name) {
	case "CCM":
		return CCM, nil
	case "DCM":
		return DCM, nil
	}
	return 0, errors.Wrapf(ErrInvalidSpecification, "未知导通模式: %s", name)
}

// Family 变换器拓扑
type Family int

// 拓扑常量定义
const (
	Buck      Family = iota // 降压
	BuckBoost               // 升降压
)

var familyName = map[Family]string{
	Buck:      "BUCK",
	BuckBoost: "BUCKBOOST",
}

var nameFamily = map[string]Family{
	"BUCK":      Buck,
	"BUCKBOOST": BuckBoost,
}

// String 返回拓扑名称
func (f Family) String() string {
	if name, ok := familyName[f]; ok {
		return name
	}
	return "Unknown"
}

// ParseFamily 通过名称获取拓扑
func ParseFamily(name string) (Family, error) {
	if f, ok := nameFamily[strings.ToUpper(strings.ReplaceAll(name, "-", ""))]; ok {
		return f, nil
	}
	return 0, errors.Wrapf(ErrInvalidSpecification, "未知变换器类型: %s", name)
}

// Quantity 电路元件
type Quantity int

// 元件常量定义
const (
	Switch Quantity = iota // 开关管 (MOSFET)
	Diode                  // 二极管
	Inductor               // 电感
	Capacitor              // 电容
	Resistor               // 负载电阻
)

// Quantities 全部元件, 按报告顺序排列
var Quantities = []Quantity{Switch, Diode, Inductor, Capacitor, Resistor}

var quantityString = map[Quantity]struct {
	Name   string // 英文名称
	Symbol string // 下标符号
	Title  string // 中文名称
}{
	Switch:    {Name: "switch", Symbol: "S", Title: "开关管"},
	Diode:     {Name: "diode", Symbol: "D", Title: "二极管"},
	Inductor:  {Name: "inductor", Symbol: "L", Title: "电感"},
	Capacitor: {Name: "capacitor", Symbol: "C", Title: "电容"},
	Resistor:  {Name: "resistor", Symbol: "R", Title: "电阻"},
}

// String 返回元件名称
func (q Quantity) String() string {
	if v, ok := quantityString[q]; ok {
		return v.Name
	}
	return "unknown"
}

// Symbol 返回元件下标符号
func (q Quantity) Symbol() string { return quantityString[q].Symbol }

// Title 返回元件中文名称
func (q Quantity) Title() string { return quantityString[q].Title }

// ParseQuantity 通过名称获取元件, 兼容 mosfet 别名
func ParseQuantity(name string) (Quantity, error) {
	name = strings.ToLower(name)
	if name == "mosfet" || name == "s" {
		return Switch, nil
	}
	for q, v := range quantityString {
		if v.Name == name || strings.ToLower(v.Symbol) == name {
			return q, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownQuantity, "%s", name)
}

// Signal 信号类型
type Signal int

// 信号常量定义
const (
	Current Signal = iota // 电流
	Voltage               // 电压
)

// Signals 全部信号
var Signals = []Signal{Current, Voltage}

// String 返回信号名称
func (s Signal) String() string {
	switch s {
	case Current:
		return "current"
	case Voltage:
		return "voltage"
	}
	return "unknown"
}

// Unit 返回信号单位
func (s Signal) Unit() string {
	if s == Voltage {
		return "V"
	}
	return "A"
}

// Prefix 返回信号符号前缀
func (s Signal) Prefix() string {
	if s == Voltage {
		return "V"
	}
	return "I"
}

// Title 返回信号中文名称
func (s Signal) Title() string {
	if s == Voltage {
		return "电压"
	}
	return "电流"
}

// ParseSignal 通过名称获取信号
func ParseSignal(name string) (Signal, error) {
	switch strings.ToLower(name) {
	case "current", "i":
		return Current, nil
	case "voltage", "v":
		return Voltage, nil
	}
	return 0, errors.Wrapf(ErrUnknownQuantity, "未知信号: %s", name)
}

// MarshalText 以名称形式序列化模式
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText 从名称解析模式
func (m *Mode) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMode(string(text))
	return err
}

// MarshalText 以名称形式序列化拓扑
func (f Family) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText 从名称解析拓扑
func (f *Family) UnmarshalText(text []byte) (err error) {
	*f, err = ParseFamily(string(text))
	return err
}
