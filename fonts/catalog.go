package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/kakimoji/logging"
)

// ErrFontNotFound 表示目录中没有该字体键。
var ErrFontNotFound = errors.New("字体未找到")

// Face 是解析后的字体数据。Index 指向 .ttc 集合中的子字体。
type Face struct {
	Name  string
	Data  []byte
	Index int
}

// Entry 描述目录中的一项字体来源。
type Entry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Index  int    `json:"index,omitempty"`
	Custom bool   `json:"custom,omitempty"`
}

// Catalog 是显式传入渲染器的字体目录，替代进程级全局字体表。
// 键为用户可见的字体名，值为文件路径。文件内容在首次解析时读取并缓存。
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
	blobs   map[string][]byte
}

// NewCatalog 创建仅包含内置回退字体的目录。
func NewCatalog() *Catalog {
	return &Catalog{
		entries: map[string]Entry{},
		blobs:   map[string][]byte{},
	}
}

// Register 以 name 注册一个自定义字体文件。name 为空时取文件名（不含扩展名）。
// 文件必须存在且能被 sfnt 解析。
func (c *Catalog) Register(name, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("字体路径为空")
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	if _, err := familyNames(data); err != nil {
		return "", fmt.Errorf("解析字体 %s 失败: %w", path, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = Entry{Name: name, Path: path, Custom: true}
	c.blobs[path] = data
	return name, nil
}

// Scan 遍历 dir 下的 .ttf/.otf/.ttc 文件，以字体族名登记到目录中。
// 已存在的键不会被覆盖。返回新登记的数量；无法解析的文件会被跳过。
func (c *Catalog) Scan(dir string) (int, error) {
	added := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isFontFile(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Logger().Warn("读取字体失败", "path", path, "err", err)
			return nil
		}
		names, err := familyNames(data)
		if err != nil {
			logging.Logger().Debug("跳过无法解析的字体", "path", path, "err", err)
			return nil
		}
		c.mu.Lock()
		for i, name := range names {
			if name == "" {
				continue
			}
			if _, ok := c.entries[name]; ok {
				continue
			}
			c.entries[name] = Entry{Name: name, Path: path, Index: i}
			added++
		}
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("扫描字体目录 %s 失败: %w", dir, err)
	}
	return added, nil
}

// Resolve 返回 key 对应的字体数据。空键或回退字体名返回内置字体；未知键返回 ErrFontNotFound。
func (c *Catalog) Resolve(key string) (Face, error) {
	if key == "" || key == FallbackName {
		return Fallback(), nil
	}
	if c == nil {
		return Face{}, fmt.Errorf("%w: %s", ErrFontNotFound, key)
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	data := c.blobs[entry.Path]
	c.mu.RUnlock()
	if !ok {
		return Face{}, fmt.Errorf("%w: %s", ErrFontNotFound, key)
	}
	if data == nil {
		var err error
		data, err = os.ReadFile(entry.Path)
		if err != nil {
			return Face{}, fmt.Errorf("读取字体 %s 失败: %w", entry.Path, err)
		}
		c.mu.Lock()
		c.blobs[entry.Path] = data
		c.mu.Unlock()
	}
	return Face{Name: key, Data: data, Index: entry.Index}, nil
}

// Keys 返回按名称排序的全部字体键，内置回退字体排在最前。
func (c *Catalog) Keys() []string {
	keys := []string{FallbackName}
	if c == nil {
		return keys
	}
	c.mu.RLock()
	rest := make([]string, 0, len(c.entries))
	for k := range c.entries {
		rest = append(rest, k)
	}
	c.mu.RUnlock()
	sort.Strings(rest)
	return append(keys, rest...)
}

// Custom 返回通过 Register 添加的字体（名称 → 路径），用于工程文件持久化。
func (c *Catalog) Custom() map[string]string {
	out := map[string]string{}
	if c == nil {
		return out
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, e := range c.entries {
		if e.Custom {
			out[k] = e.Path
		}
	}
	return out
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

// familyNames 返回字体（或字体集合中每个子字体）的族名。
func familyNames(data []byte) ([]string, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	var buf sfnt.Buffer
	names := make([]string, coll.NumFonts())
	for i := range names {
		f, err := coll.Font(i)
		if err != nil {
			return nil, err
		}
		name, err := f.Name(&buf, sfnt.NameIDFamily)
		if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}
