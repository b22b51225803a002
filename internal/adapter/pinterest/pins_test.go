package pinterest

import (
	"testing"
)

func TestParsePins(t *testing.T) {
	raw := `[
		{"title": "Sunset", "image_url": "https://i.pinimg.com/236x/aa/s.jpg", "link": "https://pinterest.com/pin/1"},
		{"title": "No image", "link": "https://pinterest.com/pin/2"},
		{"title": "Coast", "image_url": "https://i.pinimg.com/236x/cc/c.jpg"}
	]`

	pins, err := parsePins(raw)
	if err != nil {
		t.Fatalf("parsePins: %v", err)
	}
	if len(pins) != 2 {
		t.Fatalf("got %d pins, want 2 (missing image_url dropped)", len(pins))
	}
	if pins[0].Title != "Sunset" || pins[0].Link != "https://pinterest.com/pin/1" {
		t.Errorf("pins[0] = %+v", pins[0])
	}
	if pins[1].Title != "Coast" {
		t.Errorf("pins[1] = %+v", pins[1])
	}
}

func TestParsePinsEmptyForms(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		pins, err := parsePins(raw)
		if err != nil {
			t.Errorf("parsePins(%q): %v", raw, err)
		}
		if len(pins) != 0 {
			t.Errorf("parsePins(%q) = %v, want empty", raw, pins)
		}
	}
}

func TestParsePinsInvalidJSON(t *testing.T) {
	if _, err := parsePins("{not an array"); err == nil {
		t.Error("parsePins accepted invalid JSON")
	}
}

func TestParsePinsBlankImageURL(t *testing.T) {
	pins, err := parsePins(`[{"title": "x", "image_url": "   "}]`)
	if err != nil {
		t.Fatalf("parsePins: %v", err)
	}
	if len(pins) != 0 {
		t.Errorf("got %d pins, want 0", len(pins))
	}
}
