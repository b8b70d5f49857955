// Package pathcheck validates image and CSV paths lexically.
//
// Validation is purely structural: a path passes when its final segment has
// a non-empty name and a recognized extension. Nothing here touches the
// filesystem; existence and writability are the caller's concern.
package pathcheck

import (
	"fmt"
	"strings"
)

// Recognized extensions, all matched case-insensitively.
var (
	ImageExtensions = []string{".png", ".jpg", ".jpeg"}
	CSVExtensions   = []string{".csv"}
)

// FormatError reports a path that fails the extension/shape check.
type FormatError struct {
	// Path is the offending path.
	Path string

	// Allowed is the extension set the path was checked against.
	Allowed []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("path %q is not a valid %s path", e.Path, strings.Join(e.Allowed, "/"))
}

// ValidateImagePath checks that path names an image file (.png, .jpg or
// .jpeg, case-insensitive) with zero or more directory segments.
func ValidateImagePath(path string) error {
	return validate(path, ImageExtensions)
}

// ValidateCSVPath checks that path names a .csv file with zero or more
// directory segments.
func ValidateCSVPath(path string) error {
	return validate(path, CSVExtensions)
}

// ValidateImageExtension checks a bare extension (".png", ".JPG", ...)
// against the recognized image extension set.
func ValidateImageExtension(ext string) error {
	lower := strings.ToLower(ext)
	for _, allowed := range ImageExtensions {
		if lower == allowed {
			return nil
		}
	}
	return &FormatError{Path: ext, Allowed: ImageExtensions}
}

func validate(path string, allowed []string) error {
	base, ok := finalSegment(path)
	if !ok {
		return &FormatError{Path: path, Allowed: allowed}
	}

	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		// No extension, or nothing before it.
		return &FormatError{Path: path, Allowed: allowed}
	}

	ext := strings.ToLower(base[dot:])
	for _, want := range allowed {
		if ext == want {
			return nil
		}
	}
	return &FormatError{Path: path, Allowed: allowed}
}

// finalSegment returns the last path segment, accepting both slash and
// backslash separators so Windows-style paths validate on any platform.
func finalSegment(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	last := strings.LastIndexAny(path, `/\`)
	if last == len(path)-1 {
		// Trailing separator: no file segment.
		return "", false
	}

	seg := path[last+1:]
	if seg == "" || seg == "." || seg == ".." {
		return "", false
	}
	return seg, true
}
