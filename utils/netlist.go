package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NetList 网表一行的字段
type NetList []string

// FromFloats 将数值转换为 NetList, 使用最短表示
func FromFloats(values ...float64) NetList {
	result := make(NetList, len(values))
	for i, v := range values {
		result[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return result
}

// SeparationPrick 分离名称前缀与编号, 如 "buck2" -> ("BUCK", 2)
func (value NetList) SeparationPrick(i int) (typeName string, id int) {
	nameStr := strings.ToUpper(value[i])
	for i, char := range nameStr {
		if char >= '0' && char <= '9' {
			typeName = nameStr[:i]
			id, _ = strconv.Atoi(nameStr[i:])
			break
		}
	}
	if typeName == "" {
		typeName = nameStr
	}
	return typeName, id
}

// engSuffix 工程后缀, 按长度从长到短匹配
var engSuffix = []struct {
	suffix string
	scale  float64
}{
	{"meg", 1e6},
	{"t", 1e12},
	{"g", 1e9},
	{"k", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
}

// ParseEng 解析带工程后缀的数值, 如 "50k", "100u", "1meg"
func ParseEng(s string) (float64, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	if str == "" {
		return 0, fmt.Errorf("空数值")
	}
	if val, err := strconv.ParseFloat(str, 64); err == nil {
		return val, nil
	}
	for _, e := range engSuffix {
		if strings.HasSuffix(str, e.suffix) {
			val, err := strconv.ParseFloat(strings.TrimSuffix(str, e.suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("数值格式错误: %s", s)
			}
			return val * e.scale, nil
		}
	}
	return 0, fmt.Errorf("数值格式错误: %s", s)
}
