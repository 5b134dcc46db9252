package render

import (
	"context"
	"strings"
	"testing"
)

func TestConvertMissingTool(t *testing.T) {
	old := converter
	converter = "railyard-no-such-converter"
	t.Cleanup(func() { converter = old })

	if Available() {
		t.Fatal("Available() = true for a missing tool")
	}
	_, err := ToPNG(context.Background(), []byte("<svg/>"), 2)
	if err == nil || !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("ToPNG() error = %v, want install hint", err)
	}
	_, err = ToPDF(context.Background(), []byte("<svg/>"))
	if err == nil || !strings.Contains(err.Error(), "pdf export") {
		t.Errorf("ToPDF() error = %v, want install hint", err)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`
	png, err := ToPNG(context.Background(), []byte(svg), 1)
	if err != nil {
		t.Fatalf("ToPNG() error = %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Errorf("ToPNG() did not return a PNG")
	}
}
