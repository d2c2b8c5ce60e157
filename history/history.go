// Package history 提供有界的撤销/重做栈。
//
// 栈本身不做拷贝：调用方负责在 Push 之前对状态做深拷贝，
// 并在 Undo/Redo 时传入当前状态的深拷贝。
package history

// DefaultCapacity 是撤销栈的默认容量。
const DefaultCapacity = 20

// Stack 保存撤销与重做两个栈。撤销栈超过容量时丢弃最旧的条目；
// 新的 Push 会清空重做栈。
type Stack[T any] struct {
	capacity int
	undo     []T
	redo     []T
}

// New 创建容量为 capacity 的栈；capacity ≤ 0 时使用 DefaultCapacity。
func New[T any](capacity int) *Stack[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack[T]{capacity: capacity}
}

// Push 记录一次变更前的状态。
func (s *Stack[T]) Push(state T) {
	s.pushUndo(state)
	clear(s.redo)
	s.redo = s.redo[:0]
}

// Undo 将 current 压入重做栈并弹出最近的撤销状态。栈为空时返回 false 且不做任何改变。
func (s *Stack[T]) Undo(current T) (T, bool) {
	var zero T
	if len(s.undo) == 0 {
		return zero, false
	}
	last := s.undo[len(s.undo)-1]
	s.undo[len(s.undo)-1] = zero
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, current)
	return last, true
}

// Redo 是 Undo 的镜像操作。
func (s *Stack[T]) Redo(current T) (T, bool) {
	var zero T
	if len(s.redo) == 0 {
		return zero, false
	}
	last := s.redo[len(s.redo)-1]
	s.redo[len(s.redo)-1] = zero
	s.redo = s.redo[:len(s.redo)-1]
	s.pushUndo(current)
	return last, true
}

// Clear 清空两个栈。
func (s *Stack[T]) Clear() {
	s.undo = nil
	s.redo = nil
}

// Len 返回撤销栈中的条目数。
func (s *Stack[T]) Len() int { return len(s.undo) }

// RedoLen 返回重做栈中的条目数。
func (s *Stack[T]) RedoLen() int { return len(s.redo) }

func (s *Stack[T]) CanUndo() bool { return len(s.undo) > 0 }
func (s *Stack[T]) CanRedo() bool { return len(s.redo) > 0 }

// Capacity 返回撤销栈容量。
func (s *Stack[T]) Capacity() int { return s.capacity }

// Entries 返回撤销栈的副本，最旧的在前。
func (s *Stack[T]) Entries() []T {
	return append([]T(nil), s.undo...)
}

func (s *Stack[T]) pushUndo(state T) {
	s.undo = append(s.undo, state)
	if over := len(s.undo) - s.capacity; over > 0 {
		var zero T
		for i := range over {
			s.undo[i] = zero
		}
		s.undo = append(s.undo[:0], s.undo[over:]...)
	}
}
