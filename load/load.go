// Package load 加载变换器描述文件.
//
// 文件格式与电路网表相同, 每行描述一个变换器:
//
//	# 注释, 也支持 // 行注释
//	.value f 50e3
//	buck1 ccm 50 10 100 %f 0.1 0.1
//	buck2 dcm 500 10 100 %f 0.1 1 1.0
//	buckboost1 ccm 25 200 100 10k 0.1 0.1
//
// 字段依次为 名称 模式 vi vo po f deltaIl deltaVo [k|derating],
// 以 % 开头的字段引用 .value 定义的变量, 数值支持工程后缀.
package load

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"dcdc/types"
	"dcdc/utils"
)

// tokenValue 变量定义命令
const tokenValue = ".value"

// Entry 描述文件中的一个变换器
type Entry struct {
	Name   string       // 名称, 如 "buck1"
	Family types.Family // 拓扑
	ID     int          // 编号
	Spec   types.Spec   // 设计指标
	Line   int          // 行号
}

// Deck 描述文件
type Deck struct {
	Entries []Entry           // 变换器列表
	Values  map[string]string // 变量列表
}

// LoadFile 从文件加载
func LoadFile(filename string) (*Deck, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "打开描述文件 %s 失败", filename)
	}
	defer file.Close()
	return LoadReader(file)
}

// LoadString 从字符串加载
func LoadString(s string) (*Deck, error) {
	return LoadReader(strings.NewReader(s))
}

// LoadReader 逐行解析描述文件
func LoadReader(r io.Reader) (*Deck, error) {
	deck := &Deck{Values: map[string]string{}}
	names := map[string]int{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		fields := utils.NetList(strings.Fields(line))
		// 解析变量
		if strings.EqualFold(fields[0], tokenValue) {
			if len(fields) < 3 {
				return nil, errorAtLine(lineNum, ".value 命令缺少名称或值")
			}
			deck.Values[fields[1]] = fields[2]
			continue
		}
		if fields[0][0] == '.' {
			continue
		}
		entry, err := parseEntry(fields, deck.Values, lineNum)
		if err != nil {
			return nil, err
		}
		if prev, ok := names[entry.Name]; ok {
			return nil, errorAtLine(lineNum, "名称 %s 与第 %d 行重复", entry.Name, prev)
		}
		names[entry.Name] = lineNum
		deck.Entries = append(deck.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "读取描述文件时出错")
	}
	return deck, nil
}

// stripComment 去掉 # 与 // 之后的内容
func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// parseEntry 解析一行变换器定义
func parseEntry(fields utils.NetList, values map[string]string, lineNum int) (Entry, error) {
	if len(fields) < 8 {
		return Entry{}, errorAtLine(lineNum, "字段不足, 需要 名称 模式 vi vo po f deltaIl deltaVo, 得到 %d 个", len(fields))
	}
	prefix, id := fields.SeparationPrick(0)
	family, err := types.ParseFamily(prefix)
	if err != nil {
		return Entry{}, errors.WithMessagef(err, "第 %d 行", lineNum)
	}
	mode, err := types.ParseMode(fields[1])
	if err != nil {
		return Entry{}, errors.WithMessagef(err, "第 %d 行", lineNum)
	}
	// 替换变量
	resolved := make(utils.NetList, len(fields))
	copy(resolved, fields)
	for i := 2; i < len(resolved); i++ {
		if strings.HasPrefix(resolved[i], "%") {
			v, ok := values[resolved[i][1:]]
			if !ok {
				return Entry{}, errorAtLine(lineNum, "未定义的变量 %s", resolved[i])
			}
			resolved[i] = v
		}
	}
	nums := make([]float64, 0, len(resolved)-2)
	for i := 2; i < len(resolved); i++ {
		v, err := utils.ParseEng(resolved[i])
		if err != nil {
			return Entry{}, errorAtLine(lineNum, "第 %d 个字段: %v", i+1, err)
		}
		nums = append(nums, v)
	}
	spec := types.Spec{
		Vi:              nums[0],
		Vo:              nums[1],
		Po:              nums[2],
		Freq:            nums[3],
		DeltaIlFraction: nums[4],
		DeltaVoFraction: nums[5],
		Mode:            mode,
	}
	if len(nums) > 6 {
		switch family {
		case types.Buck:
			spec.DutyFraction = nums[6]
		case types.BuckBoost:
			spec.DCMDerating = nums[6]
		}
	}
	return Entry{
		Name:   strings.ToLower(fields[0]),
		Family: family,
		ID:     id,
		Spec:   spec,
		Line:   lineNum,
	}, nil
}

// errorAtLine 生成带行号的错误信息
func errorAtLine(lineNum int, format string, args ...interface{}) error {
	return errors.Wrapf(types.ErrInvalidSpecification, "第 %d 行: %s", lineNum, fmt.Sprintf(format, args...))
}

// Export 导出描述文件, 变量按名称排序
func (deck *Deck) Export(w io.Writer) error {
	writer := bufio.NewWriter(w)
	names := make([]string, 0, len(deck.Values))
	for name := range deck.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(writer, "%s %s %s\n", tokenValue, name, deck.Values[name])
	}
	for _, e := range deck.Entries {
		sp := e.Spec
		writer.WriteString(e.Name)
		writer.WriteRune(' ')
		writer.WriteString(strings.ToLower(sp.Mode.String()))
		values := utils.FromFloats(sp.Vi, sp.Vo, sp.Po, sp.Freq, sp.DeltaIlFraction, sp.DeltaVoFraction)
		switch {
		case e.Family == types.Buck && sp.DutyFraction != 0:
			values = append(values, utils.FromFloats(sp.DutyFraction)...)
		case e.Family == types.BuckBoost && sp.DCMDerating != 0:
			values = append(values, utils.FromFloats(sp.DCMDerating)...)
		}
		for _, v := range values {
			writer.WriteRune(' ')
			writer.WriteString(v)
		}
		writer.WriteRune('\n')
	}
	return writer.Flush()
}
