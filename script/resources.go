package script

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/ByLCY/kakimoji/binding"
	"github.com/ByLCY/kakimoji/dsl"
	"github.com/ByLCY/kakimoji/export"
	"github.com/ByLCY/kakimoji/raster"
)

// Style 是脚本中声明的一组文字属性，Extends 指向父样式。
type Style struct {
	Name    string
	Extends string
	Props   map[string]string
}

type namedSource struct {
	name string
	src  string
}

// resourceSet 记录 resources 段中声明的内容。
type resourceSet struct {
	background string
	fonts      map[string]string
	images     []namedSource
	colors     map[string]string
	styles     map[string]Style
	registered []string
	tools      map[string]string
}

func collectResources(s *dsl.Script, data any) (resourceSet, error) {
	res := resourceSet{
		fonts:  map[string]string{},
		colors: map[string]string{},
		tools:  map[string]string{},
	}
	rawStyles := map[string]Style{}

	for _, section := range s.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil {
				continue
			}
			switch cmd.Name {
			case "background":
				if len(cmd.Args) == 0 {
					return res, fmt.Errorf("%s: background 缺少路径", cmd.Pos)
				}
				res.background = binding.Interpolate(cmd.Args[0].Value, data)
			case "font":
				name, src := parseSourceResource(cmd, data)
				if name == "" || src == "" {
					return res, fmt.Errorf("%s: font 需要名称与 src", cmd.Pos)
				}
				res.fonts[name] = src
			case "image":
				name, src := parseSourceResource(cmd, data)
				if name == "" || src == "" {
					return res, fmt.Errorf("%s: image 需要名称与 src", cmd.Pos)
				}
				res.images = append(res.images, namedSource{name: name, src: src})
			case "color":
				name, value := parseColorResource(cmd)
				if name == "" || value == "" {
					return res, fmt.Errorf("%s: color 需要名称与取值", cmd.Pos)
				}
				c, err := raster.ParseColor(value)
				if err != nil {
					return res, fmt.Errorf("%s: 颜色 %s: %w", cmd.Pos, name, err)
				}
				res.colors[name] = raster.Hex(c)
			case "style":
				style := parseStyleResource(cmd)
				if style.Name == "" {
					return res, fmt.Errorf("%s: style 缺少名称", cmd.Pos)
				}
				rawStyles[style.Name] = style
			case "register":
				for _, arg := range cmd.Args {
					res.registered = append(res.registered, binding.Interpolate(arg.Value, data))
				}
			case "tools":
				maps.Copy(res.tools, blockProps(cmd.Block))
			default:
				return res, fmt.Errorf("%s: 未知的资源声明 %s", cmd.Pos, cmd.Name)
			}
		}
	}

	styles, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.styles = styles
	return res, nil
}

func collectMeta(s *dsl.Script, data any) export.Meta {
	meta := export.Meta{
		Title:   s.Name,
		Creator: "kakimoji",
	}
	for _, section := range s.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			val := binding.Interpolate(valueToString(stmt.Assignment.Value), data)
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = val
			case "author":
				meta.Author = val
			case "subject":
				meta.Subject = val
			case "creator":
				meta.Creator = val
			case "keywords":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

// parseSourceResource 解析 `font Name { src: "..." }` 与 `image Name "path"` 两种写法。
func parseSourceResource(cmd *dsl.Command, data any) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	src := ""
	if len(cmd.Args) > 1 && cmd.Args[1].IsString() {
		src = cmd.Args[1].Value
	}
	if v, ok := blockProps(cmd.Block)["src"]; ok {
		src = v
	}
	return name, binding.Interpolate(src, data)
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: blockProps(cmd.Block),
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	return style
}

// resolveStyles 展开样式继承，子样式覆盖父样式的同名属性。
func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			maps.Copy(props, parent.Props)
		}
		maps.Copy(props, style.Props)
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func blockProps(block *dsl.Block) map[string]string {
	props := map[string]string{}
	if block == nil {
		return props
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if val := valueToString(stmt.Assignment.Value); val != "" {
			props[stmt.Assignment.Key] = val
		}
	}
	return props
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		return val.Expr.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}

func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
