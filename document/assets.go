package document

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/kakimoji/raster"
)

// ThumbnailWidth 是素材缩略图的宽度，高度按比例计算且不超过 ThumbnailMaxHeight。
const (
	ThumbnailWidth     = 140
	ThumbnailMaxHeight = 140
)

// Asset 是导入的素材图像。ID 在导入时分配，之后不再改变。
type Asset struct {
	ID        int
	Image     *image.RGBA
	Thumbnail *image.RGBA
}

// AssetCatalog 按 ID 保存素材。删除只把槽位置空，不压缩列表，
// 因此已有的 PlacedImage.AssetID 仍然有效或解析为空。
type AssetCatalog struct {
	slots []*Asset
}

func NewAssetCatalog() *AssetCatalog { return &AssetCatalog{} }

// Add 导入一张图像并返回其 ID。img 为 nil 时登记一个空槽位。
func (c *AssetCatalog) Add(img image.Image) int {
	id := len(c.slots)
	if img == nil {
		c.slots = append(c.slots, nil)
		return id
	}
	rgba := raster.ToRGBA(img)
	c.slots = append(c.slots, &Asset{ID: id, Image: rgba, Thumbnail: thumbnail(rgba)})
	return id
}

// Get 返回素材图像；ID 越界或已删除时返回 nil。
func (c *AssetCatalog) Get(id int) *image.RGBA {
	if a, ok := c.Asset(id); ok {
		return a.Image
	}
	return nil
}

func (c *AssetCatalog) Asset(id int) (*Asset, bool) {
	if c == nil || id < 0 || id >= len(c.slots) || c.slots[id] == nil {
		return nil, false
	}
	return c.slots[id], true
}

// Remove 将槽位置空。返回是否确实删除了素材。
func (c *AssetCatalog) Remove(id int) bool {
	if _, ok := c.Asset(id); !ok {
		return false
	}
	c.slots[id] = nil
	return true
}

// Len 返回槽位数量（包括已删除的槽位）。
func (c *AssetCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.slots)
}

// Present 返回仍然存在的素材，按 ID 排序。
func (c *AssetCatalog) Present() []*Asset {
	var out []*Asset
	if c == nil {
		return out
	}
	for _, a := range c.slots {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

func thumbnail(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil
	}
	h := int(ThumbnailWidth * float64(b.Dy()) / float64(b.Dx()))
	h = min(max(h, 1), ThumbnailMaxHeight)
	return raster.Scale(img, ThumbnailWidth, h, xdraw.CatmullRom)
}
