// Package export 以 JSON 或 MessagePack 导出变换器参数与波形.
package export

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"dcdc/types"
)

// Encoding 导出格式
type Encoding string

// 导出格式定义
const (
	JSON    Encoding = "json"
	MsgPack Encoding = "msgpack"
)

// ParseEncoding 通过名称获取导出格式
func ParseEncoding(name string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(name)); e {
	case JSON, MsgPack:
		return e, nil
	case "mp", "msgp":
		return MsgPack, nil
	}
	return "", errors.Errorf("未知导出格式: %s", name)
}

// Document 单个变换器的导出内容
type Document struct {
	Name      string           `json:"name" msgpack:"name"`
	Family    types.Family     `json:"family" msgpack:"family"`
	Mode      types.Mode       `json:"mode" msgpack:"mode"`
	Spec      types.Spec       `json:"spec" msgpack:"spec"`
	State     types.State      `json:"state" msgpack:"state"`
	Stress    types.Stress     `json:"stress" msgpack:"stress"`
	Waveforms []types.Waveform `json:"waveforms" msgpack:"waveforms"`
}

// NewDocument 收集变换器的全部参数与波形
func NewDocument(c types.Converter) (*Document, error) {
	stress, err := c.Stress()
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Name:   c.Name(),
		Family: c.Family(),
		Mode:   c.Mode(),
		Spec:   c.Spec(),
		State:  c.State(),
		Stress: stress,
	}
	for _, q := range types.Quantities {
		for _, s := range types.Signals {
			w, err := c.Waveform(q, s)
			if err != nil {
				return nil, err
			}
			doc.Waveforms = append(doc.Waveforms, w)
		}
	}
	return doc, nil
}

// Encode 按格式写出多个变换器
func Encode(w io.Writer, enc Encoding, convs ...types.Converter) error {
	docs := make([]*Document, 0, len(convs))
	for _, c := range convs {
		doc, err := NewDocument(c)
		if err != nil {
			return errors.WithMessage(err, c.Name())
		}
		docs = append(docs, doc)
	}
	switch enc {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(docs), "JSON 编码失败")
	case MsgPack:
		return errors.Wrap(msgpack.NewEncoder(w).Encode(docs), "MessagePack 编码失败")
	}
	return errors.Errorf("未知导出格式: %s", enc)
}

// Decode 读取导出的文档
func Decode(r io.Reader, enc Encoding) ([]Document, error) {
	var docs []Document
	switch enc {
	case JSON:
		if err := json.NewDecoder(r).Decode(&docs); err != nil {
			return nil, errors.Wrap(err, "JSON 解码失败")
		}
	case MsgPack:
		if err := msgpack.NewDecoder(r).Decode(&docs); err != nil {
			return nil, errors.Wrap(err, "MessagePack 解码失败")
		}
	default:
		return nil, errors.Errorf("未知导出格式: %s", enc)
	}
	return docs, nil
}
