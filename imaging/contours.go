package imaging

import "image"

// Contours returns the boundary pixels of the mask: foreground pixels with
// at least one 4-connected background (or out-of-image) neighbor.
func Contours(m *Mask) []image.Point {
	w, h := m.Width(), m.Height()
	var pts []image.Point
	at := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return m.Pix.Pix[y*m.Pix.Stride+x] != 0
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !at(x, y) {
				continue
			}
			if !at(x-1, y) || !at(x+1, y) || !at(x, y-1) || !at(x, y+1) {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// DrawContours paints the given boundary pixels onto img with the given
// outline width. Each point is stamped as a width-sized square so the
// outline reads as a continuous line.
func DrawContours(img *Image, pts []image.Point, c RGB, width int) {
	if width < 1 {
		width = 1
	}
	w, h := img.Width(), img.Height()
	lo := -(width / 2)
	hi := lo + width - 1
	for _, p := range pts {
		for dy := lo; dy <= hi; dy++ {
			for dx := lo; dx <= hi; dx++ {
				x, y := p.X+dx, p.Y+dy
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				img.SetRGB(x, y, c)
			}
		}
	}
}
