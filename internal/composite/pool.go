package composite

import (
	"image"
	"sync"
)

type poolKey struct {
	w, h int
}

// pools maps (width, height) to a *sync.Pool of *image.NRGBA. Tiles come in
// one or two sizes, so the map stays tiny.
var pools sync.Map

// getNRGBA returns a zeroed raster with Rect (0,0)-(w,h).
func getNRGBA(w, h int) *image.NRGBA {
	if p, ok := pools.Load(poolKey{w, h}); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			img := v.(*image.NRGBA)
			clear(img.Pix)
			return img
		}
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// putNRGBA hands a raster back for reuse. The caller must not touch it again.
func putNRGBA(img *image.NRGBA) {
	if img == nil {
		return
	}
	p, _ := pools.LoadOrStore(poolKey{img.Rect.Dx(), img.Rect.Dy()}, &sync.Pool{})
	p.(*sync.Pool).Put(img)
}
