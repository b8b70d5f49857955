package pipeline

import (
	"context"
	"fmt"

	"github.com/randalmurphal/woundflow/imaging"
)

// Fixed render styling.
const contourWidth = 2

var (
	woundColor  = imaging.Green
	bodyColor   = imaging.Blue
	labelFill   = imaging.Black
	labelBorder = imaging.White
)

// Render produces the persistable form of one artifact kind. It is a pure
// transform over the graph's resolved values: it writes nothing to disk
// and never mutates cached artifacts.
func Render(ctx context.Context, g *Graph, kind Kind) (*imaging.Image, error) {
	switch kind {
	case KindOriginal:
		img, err := g.Original(ctx)
		if err != nil {
			return nil, err
		}
		return img.Clone(), nil

	case KindSegmentationMask:
		return renderSegmentationMask(ctx, g)

	case KindSegmentationSemantic:
		return renderSemantic(ctx, g)

	case KindMaskWound:
		mask, err := g.WoundMask(ctx)
		if err != nil {
			return nil, err
		}
		return renderContourOverlay(ctx, g, mask)

	case KindMaskPeriWound:
		mask, err := g.PeriWoundMask(ctx)
		if err != nil {
			return nil, err
		}
		return renderContourOverlay(ctx, g, mask)

	case KindMaskedWound:
		img, err := g.WoundMasked(ctx)
		if err != nil {
			return nil, err
		}
		return img.Clone(), nil

	case KindMaskedPeriWound:
		img, err := g.PeriWoundMasked(ctx)
		if err != nil {
			return nil, err
		}
		return img.Clone(), nil

	case KindPwatEstimation:
		return renderPwatOverlay(ctx, g)
	}
	return nil, fmt.Errorf("render: unknown artifact kind %q", kind)
}

// renderSegmentationMask composites the three masks into one image:
// wound in the red channel, body in green, background in blue.
func renderSegmentationMask(ctx context.Context, g *Graph) (*imaging.Image, error) {
	seg, err := g.Segmentation(ctx)
	if err != nil {
		return nil, err
	}

	out := imaging.NewImage(seg.Wound.Width(), seg.Wound.Height())
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			var c imaging.RGB
			if seg.Wound.At(x, y) {
				c.R = 0xff
			}
			if seg.Body.At(x, y) {
				c.G = 0xff
			}
			if seg.Background.At(x, y) {
				c.B = 0xff
			}
			out.SetRGB(x, y, c)
		}
	}
	return out, nil
}

func renderSemantic(ctx context.Context, g *Graph) (*imaging.Image, error) {
	img, err := g.Original(ctx)
	if err != nil {
		return nil, err
	}
	seg, err := g.Segmentation(ctx)
	if err != nil {
		return nil, err
	}

	out := img.Clone()
	imaging.DrawContours(out, imaging.Contours(seg.Body), bodyColor, contourWidth)
	imaging.DrawContours(out, imaging.Contours(seg.Wound), woundColor, contourWidth)
	return out, nil
}

func renderContourOverlay(ctx context.Context, g *Graph, mask *imaging.Mask) (*imaging.Image, error) {
	img, err := g.Original(ctx)
	if err != nil {
		return nil, err
	}
	out := img.Clone()
	imaging.DrawContours(out, imaging.Contours(mask), woundColor, contourWidth)
	return out, nil
}

func renderPwatOverlay(ctx context.Context, g *Graph) (*imaging.Image, error) {
	mask, err := g.WoundMask(ctx)
	if err != nil {
		return nil, err
	}
	out, err := renderContourOverlay(ctx, g, mask)
	if err != nil {
		return nil, err
	}
	predicted, err := g.PredictedScore(ctx)
	if err != nil {
		return nil, err
	}

	x, y := 10, 30
	imaging.DrawLabel(out, "PWAT Estimation", x, y, labelFill, labelBorder)
	y += 20

	if clinical, ok := g.ClinicalScore(); ok && clinical > 0 {
		imaging.DrawLabel(out, fmt.Sprintf("Clinical score: %.3f", clinical), x, y, labelFill, labelBorder)
		y += 20
	}
	imaging.DrawLabel(out, fmt.Sprintf("Predicted score: %.3f", predicted), x, y, labelFill, labelBorder)
	return out, nil
}
