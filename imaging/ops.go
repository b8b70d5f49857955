package imaging

// Apply returns a copy of img with every pixel outside the mask zeroed.
// Image and mask must be the same size.
func Apply(img *Image, m *Mask) *Image {
	out := img.Clone()
	for i, v := range m.Pix.Pix {
		if v == 0 {
			o := i * 4
			out.Pix.Pix[o] = 0
			out.Pix.Pix[o+1] = 0
			out.Pix.Pix[o+2] = 0
			out.Pix.Pix[o+3] = 0xff
		}
	}
	return out
}

// Or returns the union of two same-sized masks.
func Or(a, b *Mask) *Mask {
	out := a.Clone()
	for i, v := range b.Pix.Pix {
		if v != 0 {
			out.Pix.Pix[i] = 0xff
		}
	}
	return out
}

// And returns the intersection of two same-sized masks.
func And(a, b *Mask) *Mask {
	out := NewMask(a.Width(), a.Height())
	for i := range a.Pix.Pix {
		if a.Pix.Pix[i] != 0 && b.Pix.Pix[i] != 0 {
			out.Pix.Pix[i] = 0xff
		}
	}
	return out
}

// AndNot returns the pixels of a that are not in b.
func AndNot(a, b *Mask) *Mask {
	out := NewMask(a.Width(), a.Height())
	for i := range a.Pix.Pix {
		if a.Pix.Pix[i] != 0 && b.Pix.Pix[i] == 0 {
			out.Pix.Pix[i] = 0xff
		}
	}
	return out
}

// IsSubset reports whether every foreground pixel of a is foreground in b.
func IsSubset(a, b *Mask) bool {
	for i, v := range a.Pix.Pix {
		if v != 0 && b.Pix.Pix[i] == 0 {
			return false
		}
	}
	return true
}

// Overlaps reports whether a and b share any foreground pixel.
func Overlaps(a, b *Mask) bool {
	for i, v := range a.Pix.Pix {
		if v != 0 && b.Pix.Pix[i] != 0 {
			return true
		}
	}
	return false
}
