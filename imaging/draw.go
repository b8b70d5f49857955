package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawLabel renders text at baseline (x, y) in two passes: the border
// color stamped at the eight surrounding offsets first, then the fill on
// top. The double pass keeps labels legible against arbitrary backgrounds.
func DrawLabel(img *Image, text string, x, y int, fill, border RGB) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawText(img, text, x+dx, y+dy, border)
		}
	}
	drawText(img, text, x, y, fill)
}

func drawText(img *Image, text string, x, y int, c RGB) {
	d := font.Drawer{
		Dst:  img.Pix,
		Src:  image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
