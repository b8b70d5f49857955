package pipeline

import "fmt"

// Kind identifies one of the eight persistable artifacts derived from a
// source image. The string form doubles as the on-disk file stem.
type Kind int

// Artifact kinds, in save order.
const (
	KindOriginal Kind = iota
	KindSegmentationMask
	KindSegmentationSemantic
	KindMaskWound
	KindMaskPeriWound
	KindMaskedWound
	KindMaskedPeriWound
	KindPwatEstimation
)

var kindNames = map[Kind]string{
	KindOriginal:             "original",
	KindSegmentationMask:     "segmentation_mask",
	KindSegmentationSemantic: "segmentation_semantic",
	KindMaskWound:            "mask_wound",
	KindMaskPeriWound:        "mask_peri_wound",
	KindMaskedWound:          "masked_wound",
	KindMaskedPeriWound:      "masked_peri_wound",
	KindPwatEstimation:       "pwat_estimation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns all artifact kinds in save order.
func Kinds() []Kind {
	return []Kind{
		KindOriginal,
		KindSegmentationMask,
		KindSegmentationSemantic,
		KindMaskWound,
		KindMaskPeriWound,
		KindMaskedWound,
		KindMaskedPeriWound,
		KindPwatEstimation,
	}
}

// UploadKinds returns the kinds the upload boundary accepts: every
// artifact except the original, which callers already have.
func UploadKinds() []Kind {
	return Kinds()[1:]
}

// ParseKind maps a wire name ("mask_wound", ...) to its Kind. Unknown
// names fail at parse time rather than at render time.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown artifact kind %q", name)
}
