package imaging

import "image"

// Dilate grows the mask by a square structuring element of the given
// kernel size. A kernel of 1 or less returns a plain copy.
func Dilate(m *Mask, kernel int) *Mask {
	if kernel <= 1 {
		return m.Clone()
	}

	// Separable dilation: horizontal pass then vertical pass.
	w, h := m.Width(), m.Height()
	left := kernel / 2
	right := kernel - 1 - left

	horiz := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := m.Pix.Pix[y*m.Pix.Stride : y*m.Pix.Stride+w]
		out := horiz.Pix.Pix[y*horiz.Pix.Stride : y*horiz.Pix.Stride+w]
		for x, v := range row {
			if v == 0 {
				continue
			}
			lo := max(0, x-left)
			hi := min(w-1, x+right)
			for i := lo; i <= hi; i++ {
				out[i] = 0xff
			}
		}
	}

	out := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := horiz.Pix.Pix[y*horiz.Pix.Stride : y*horiz.Pix.Stride+w]
		lo := max(0, y-left)
		hi := min(h-1, y+right)
		for x, v := range row {
			if v == 0 {
				continue
			}
			for i := lo; i <= hi; i++ {
				out.Pix.Pix[i*out.Pix.Stride+x] = 0xff
			}
		}
	}
	return out
}

// Fill closes interior holes: background regions not reachable from the
// image border are reclassified as foreground.
func Fill(m *Mask) *Mask {
	w, h := m.Width(), m.Height()
	outside := make([]bool, w*h)

	// Flood fill the outside background starting from every border pixel.
	var stack []image.Point
	push := func(x, y int) {
		idx := y*w + x
		if !outside[idx] && m.Pix.Pix[y*m.Pix.Stride+x] == 0 {
			outside[idx] = true
			stack = append(stack, image.Pt(x, y))
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.X > 0 {
			push(p.X-1, p.Y)
		}
		if p.X < w-1 {
			push(p.X+1, p.Y)
		}
		if p.Y > 0 {
			push(p.X, p.Y-1)
		}
		if p.Y < h-1 {
			push(p.X, p.Y+1)
		}
	}

	out := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !outside[y*w+x] {
				out.Pix.Pix[y*out.Pix.Stride+x] = 0xff
			}
		}
	}
	return out
}
