package types

import "io"

// Converter 变换器计算接口, 降压与升降压模型均实现该接口
type Converter interface {
	Name() string                                    // 名称, 如 "BUCK CCM"
	Family() Family                                  // 拓扑
	Mode() Mode                                      // 导通模式
	Spec() Spec                                      // 设计指标
	State() State                                    // 派生参数
	SizeInductor() error                             // 计算电感
	SizeCapacitor() error                            // 计算电容
	Stress() (Stress, error)                         // 器件应力
	Info() []Field                                   // 报告字段
	Waveform(q Quantity, s Signal) (Waveform, error) // 波形断点
	Report(w io.Writer) error                        // 文本报告
}

