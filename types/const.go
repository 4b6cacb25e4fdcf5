package types

// 默认模型常量定义
var (
	Placeholder         = 1.0  // 未计算元件的占位值 (H / F)
	DefaultDutyFraction = 1.0  // 降压 DCM 占空比相对 CCM 占空比的默认比例
	DefaultDCMDerating  = 0.85 // 升降压 DCM 占空比降额系数
	Tolerance           = 1e-9 // 浮点比较容差
	Periods             = 2    // 波形输出的开关周期数
)
