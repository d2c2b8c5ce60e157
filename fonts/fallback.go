package fonts

import "golang.org/x/image/font/gofont/goregular"

// FallbackName 是内置回退字体在目录中的键名。
const FallbackName = "Go Regular"

// Fallback 返回内置回退字体（Go Regular）的 TTF 数据。
// 任何字体解析失败时渲染器都会退回到该字体，保证文字对象总能绘制。
func Fallback() Face {
	return Face{Name: FallbackName, Data: goregular.TTF}
}
