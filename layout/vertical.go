package layout

// 竖排专用的字符修正表。

// verticalForms 将横排标点替换为竖排呈现形式（Unicode Vertical Forms / CJK Compatibility Forms）。
var verticalForms = map[rune]rune{
	'、': '︑',
	'。': '︒',
	'，': '︐',
	'．': '︒',
	'！': '︕',
	'？': '︖',
	'「': '﹁',
	'」': '﹂',
	'『': '﹃',
	'』': '﹄',
	'（': '︵',
	'）': '︶',
	'｛': '︷',
	'｝': '︸',
	'〔': '︹',
	'〕': '︺',
	'【': '︻',
	'】': '︼',
	'《': '︽',
	'》': '︾',
	'〈': '︿',
	'〉': '﹀',
	'［': '﹇',
	'］': '﹈',
	'〜': '≀',
	'～': '≀',
}

// rotatedGlyphs 在格子内旋转 90° 绘制，而不是替换。
var rotatedGlyphs = map[rune]bool{
	'…': true,
	'‥': true,
	'ー': true,
	'—': true,
	'―': true,
	'－': true,
	'-': true,
	':': true,
	'：': true,
	';': true,
	'；': true,
	'゠': true,
	'=': true,
	'＝': true,
}

// smallKana 需要向右上微调以对齐周围的全角字符。
var smallKana = map[rune]bool{
	'ぁ': true, 'ぃ': true, 'ぅ': true, 'ぇ': true, 'ぉ': true,
	'っ': true, 'ゃ': true, 'ゅ': true, 'ょ': true, 'ゎ': true,
	'ゕ': true, 'ゖ': true,
	'ァ': true, 'ィ': true, 'ゥ': true, 'ェ': true, 'ォ': true,
	'ッ': true, 'ャ': true, 'ュ': true, 'ョ': true, 'ヮ': true,
	'ヵ': true, 'ヶ': true,
	'ｧ': true, 'ｨ': true, 'ｩ': true, 'ｪ': true, 'ｫ': true,
	'ｯ': true, 'ｬ': true, 'ｭ': true, 'ｮ': true,
}

const (
	// verticalGapRatio 是竖排时在字距之外固定追加的字间距（字号的比例）。
	verticalGapRatio = 0.05
	// smallKanaShiftRatio 是小假名向右上的偏移量（字号的比例）。
	smallKanaShiftRatio = 0.12
)

// VerticalForm 返回 r 在竖排中实际绘制的字形。
func VerticalForm(r rune) rune {
	if v, ok := verticalForms[r]; ok {
		return v
	}
	return r
}

// IsRotatedInVertical reports whether r is drawn rotated 90° in vertical mode.
func IsRotatedInVertical(r rune) bool { return rotatedGlyphs[r] }

// IsSmallKana reports whether r receives the small-kana offset in vertical mode.
func IsSmallKana(r rune) bool { return smallKana[r] }
