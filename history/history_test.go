package history

import "testing"

func TestPushBeyondCapacityDropsOldest(t *testing.T) {
	s := New[int](20)
	for i := range 25 {
		s.Push(i)
	}
	if s.Len() != 20 {
		t.Fatalf("期望 20 条记录，实际 %d", s.Len())
	}
	entries := s.Entries()
	if entries[0] != 5 || entries[19] != 24 {
		t.Fatalf("最旧的 5 条应按 FIFO 丢弃: first=%d last=%d", entries[0], entries[19])
	}
}

func TestUndoRedo(t *testing.T) {
	s := New[string](0)
	if s.Capacity() != DefaultCapacity {
		t.Fatalf("默认容量应为 %d", DefaultCapacity)
	}
	if _, ok := s.Undo("x"); ok {
		t.Fatalf("空栈撤销应为 no-op")
	}
	if s.RedoLen() != 0 {
		t.Fatalf("空栈撤销不应写入重做栈")
	}

	s.Push("a")
	prev, ok := s.Undo("b")
	if !ok || prev != "a" {
		t.Fatalf("Undo = %q,%v", prev, ok)
	}
	next, ok := s.Redo("a")
	if !ok || next != "b" {
		t.Fatalf("Redo = %q,%v", next, ok)
	}
	if s.Len() != 1 || s.RedoLen() != 0 {
		t.Fatalf("redo 后状态不正确: undo=%d redo=%d", s.Len(), s.RedoLen())
	}
	if _, ok := s.Redo("z"); ok {
		t.Fatalf("空重做栈应为 no-op")
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := New[int](3)
	s.Push(1)
	s.Push(2)
	s.Undo(3)
	if !s.CanRedo() {
		t.Fatalf("撤销后应可重做")
	}
	s.Push(4)
	if s.CanRedo() {
		t.Fatalf("新的变更应清空重做栈")
	}
	s.Clear()
	if s.CanUndo() || s.CanRedo() {
		t.Fatalf("Clear 后应为空")
	}
}
