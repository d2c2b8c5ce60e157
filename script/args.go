package script

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/ByLCY/kakimoji/binding"
	"github.com/ByLCY/kakimoji/dsl"
	"github.com/ByLCY/kakimoji/layout"
)

// flagArgs 是不带取值的参数。
var flagArgs = map[string][2]string{
	"vertical":   {"vertical", "true"},
	"horizontal": {"vertical", "false"},
}

// pairArgs 是带两个取值的参数，分别写入两个属性。
var pairArgs = map[string][2]string{
	"at": {"x", "y"},
	"to": {"x2", "y2"},
}

// parseArgs 把命令参数解析为属性表。allowStyle 时首个非关键字标识符视为样式名。
// 取值中的 ${path} 会按 data 替换。
func parseArgs(args []*dsl.Lexeme, allowStyle bool, data any) (string, map[string]string, error) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result, nil
	}

	cursor := 0
	var style string
	if allowStyle && args[0].Type == "Ident" && !isKeyword(args[0].Value) {
		style = args[0].Value
		cursor = 1
	}

	value := func(i int) string { return binding.Interpolate(args[i].Value, data) }
	for cursor < len(args) {
		key := args[cursor].Value
		if f, ok := flagArgs[key]; ok {
			result[f[0]] = f[1]
			cursor++
			continue
		}
		if p, ok := pairArgs[key]; ok {
			if cursor+2 >= len(args) {
				return "", nil, fmt.Errorf("%s 需要两个取值", key)
			}
			result[p[0]] = value(cursor + 1)
			result[p[1]] = value(cursor + 2)
			cursor += 3
			continue
		}
		if cursor+1 >= len(args) {
			return "", nil, fmt.Errorf("参数 %s 缺少取值", key)
		}
		result[key] = value(cursor + 1)
		cursor += 2
	}
	return style, result, nil
}

func isKeyword(s string) bool {
	_, flag := flagArgs[s]
	_, pair := pairArgs[s]
	return flag || pair
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if s, ok := styles[style]; ok {
		maps.Copy(out, s.Props)
	}
	maps.Copy(out, inline)
	return out
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

// parseAlign 识别 "right top"、"center middle" 等写法。center 先填水平方向，
// 水平已指定时再填垂直方向。
func parseAlign(value string, h layout.AlignH, v layout.AlignV) (layout.AlignH, layout.AlignV) {
	hSet := false
	for _, field := range strings.Fields(strings.ToLower(value)) {
		switch field {
		case "right":
			h, hSet = layout.AlignRight, true
		case "left":
			h, hSet = layout.AlignLeft, true
		case "top":
			v = layout.AlignTop
		case "middle":
			v = layout.AlignMiddle
		case "bottom":
			v = layout.AlignBottom
		case "center":
			if hSet {
				v = layout.AlignMiddle
			} else {
				h, hSet = layout.AlignCenter, true
			}
		}
	}
	return h, v
}

// percentOf 将间距写法换算为字号百分比。不带单位的数字即百分比。
func percentOf(value string, size float64) float64 {
	l := layout.ParseLength(value)
	if l.Unit == layout.UnitNone {
		return l.Value
	}
	return l.ToPercent(size)
}

// coordinate 解析坐标，百分比相对 reference。
func coordinate(value string, reference float64) (float64, error) {
	l, err := layout.ParseLengthStrict(value)
	if err != nil {
		return 0, err
	}
	return l.ToPX(reference), nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%s 需要数字: %q", key, value)
	}
	return f, nil
}

func positive(key string, v float64) (float64, error) {
	if v <= 0 {
		return 0, fmt.Errorf("%s 必须为正数", key)
	}
	return v, nil
}
