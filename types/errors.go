package types

import "errors"

// 错误分类
var (
	// ErrInvalidSpecification 输入参数非正或超出范围
	ErrInvalidSpecification = errors.New("invalid specification")
	// ErrUnsizedComponent 电感或电容尚未计算
	ErrUnsizedComponent = errors.New("unsized component")
	// ErrArithmeticFault 计算结果非有限值或不符合物理约束
	ErrArithmeticFault = errors.New("arithmetic fault")
	// ErrUnknownQuantity 未知的波形物理量或信号
	ErrUnknownQuantity = errors.New("unknown quantity")
	// ErrModeMismatch 变换器模式或类型不匹配
	ErrModeMismatch = errors.New("mode mismatch")
)
