package render

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"named white", "white", color.NRGBA{255, 255, 255, 255}, false},
		{"named uppercase", "Black", color.NRGBA{0, 0, 0, 255}, false},
		{"transparent", "transparent", color.NRGBA{0, 0, 0, 0}, false},
		{"short hex", "#f0a", color.NRGBA{255, 0, 170, 255}, false},
		{"full hex", "#336699", color.NRGBA{0x33, 0x66, 0x99, 255}, false},
		{"hex with alpha", "#33669980", color.NRGBA{0x33, 0x66, 0x99, 0x80}, false},
		{"unknown name", "mauve-ish", color.NRGBA{}, true},
		{"bad hex digits", "#zzzzzz", color.NRGBA{}, true},
		{"bad hex length", "#12345", color.NRGBA{}, true},
		{"empty", "", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
