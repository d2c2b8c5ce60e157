package document

import "slices"

// Snapshot 是可变对象列表的深拷贝，用于撤销与重做。背景图不在其中。
type Snapshot struct {
	Strokes []Stroke
	Texts   []TextObject
	Images  []PlacedImage
}

// Clone 返回不与 s 共享底层数组的副本。
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Strokes: slices.Clone(s.Strokes),
		Texts:   slices.Clone(s.Texts),
		Images:  slices.Clone(s.Images),
	}
}

// Equal 逐对象比较两个快照。nil 与空列表视为相等。
func (s Snapshot) Equal(o Snapshot) bool {
	return slices.Equal(s.Strokes, o.Strokes) &&
		slices.Equal(s.Texts, o.Texts) &&
		slices.Equal(s.Images, o.Images)
}
