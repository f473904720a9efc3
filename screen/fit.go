package screen

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Fit copies src over the whole of dst, scaling it when the sizes differ. Frames are drawn in
// logical pixels and windows on HiDPI displays have more physical pixels than that.
func Fit(dst draw.Image, src image.Image) {
	db, sb := dst.Bounds(), src.Bounds()
	if db.Size() == sb.Size() {
		draw.Draw(dst, db, src, sb.Min, draw.Src)
		return
	}
	xdraw.NearestNeighbor.Scale(dst, db, src, sb, xdraw.Src, nil)
}
