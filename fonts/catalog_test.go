package fonts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func writeGoRegular(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("写入测试字体失败: %v", err)
	}
	return path
}

func TestResolveFallback(t *testing.T) {
	c := NewCatalog()
	for _, key := range []string{"", FallbackName} {
		face, err := c.Resolve(key)
		if err != nil {
			t.Fatalf("Resolve(%q) 失败: %v", key, err)
		}
		if !bytes.Equal(face.Data, goregular.TTF) {
			t.Fatalf("Resolve(%q) 未返回回退字体", key)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := NewCatalog().Resolve("メイリオ")
	if !errors.Is(err, ErrFontNotFound) {
		t.Fatalf("期望 ErrFontNotFound，实际 %v", err)
	}
}

func TestRegisterCustomFont(t *testing.T) {
	dir := t.TempDir()
	path := writeGoRegular(t, dir, "MyHand.ttf")
	c := NewCatalog()
	name, err := c.Register("", path)
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if name != "MyHand" {
		t.Fatalf("默认名称应取文件名，实际 %q", name)
	}
	face, err := c.Resolve("MyHand")
	if err != nil || len(face.Data) == 0 {
		t.Fatalf("Resolve 自定义字体失败: %v", err)
	}
	if got := c.Custom(); got["MyHand"] != path || len(got) != 1 {
		t.Fatalf("Custom() = %v", got)
	}
}

func TestRegisterRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCatalog().Register("bad", path); err == nil {
		t.Fatalf("期望解析错误")
	}
}

func TestScanUsesFamilyNames(t *testing.T) {
	dir := t.TempDir()
	writeGoRegular(t, dir, "a.ttf")
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewCatalog()
	n, err := c.Scan(dir)
	if err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if n != 1 {
		t.Fatalf("期望登记 1 个字体，实际 %d", n)
	}
	if _, err := c.Resolve("Go"); err != nil {
		t.Fatalf("扫描后应能按族名解析: %v", err)
	}
	keys := c.Keys()
	if keys[0] != FallbackName || len(keys) != 2 {
		t.Fatalf("Keys() = %v", keys)
	}
	if len(c.Custom()) != 0 {
		t.Fatalf("扫描到的字体不应视为自定义字体")
	}
}
