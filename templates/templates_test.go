package templates

import (
	"strings"
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mask_peri_wound", "Mask Peri Wound"},
		{"pwat_estimation", "Pwat Estimation"},
		{"segmentation_mask", "Segmentation Mask"},
		{"original", "Original"},
	}
	for _, tt := range tests {
		if got := Label(tt.in); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderUpload(t *testing.T) {
	var sb strings.Builder
	data := UploadData{Formats: []string{"segmentation_mask", "pwat_estimation"}}
	if err := Render(&sb, "upload.html", data); err != nil {
		t.Fatalf("Render: %v", err)
	}

	html := sb.String()
	for _, want := range []string{
		`<option value="segmentation_mask">Segmentation Mask</option>`,
		`<option value="pwat_estimation">Pwat Estimation</option>`,
		`enctype="multipart/form-data"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderPwatPage(t *testing.T) {
	var sb strings.Builder
	if err := Render(&sb, "upload_pwat.html", nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(sb.String(), `action="/upload/pwat"`) {
		t.Error("pwat page should post to /upload/pwat")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	var sb strings.Builder
	if err := Render(&sb, "missing.html", nil); err == nil {
		t.Error("unknown page should be an error")
	}
}
