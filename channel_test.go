package pixfmt

import "testing"

// TestChannelSpecCounts tests channel counting with and without alpha.
func TestChannelSpecCounts(t *testing.T) {
	tests := []struct {
		spec ChannelSpec
		n    int
		str  string
	}{
		{ChannelsLum, 1, "Lum"},
		{ChannelsLumA, 2, "LumA"},
		{ChannelsRGB, 3, "RGB"},
		{ChannelsRGBA, 4, "RGBA"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.spec.NumChannels(); got != tt.n {
				t.Errorf("NumChannels() = %d, want %d", got, tt.n)
			}
			if got := tt.spec.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if !tt.spec.IsValid() {
				t.Error("IsValid() = false")
			}
		})
	}
}

// TestChannelSpecZeroValue tests that the zero spec is invalid and inert.
func TestChannelSpecZeroValue(t *testing.T) {
	var s ChannelSpec
	if s.IsValid() {
		t.Error("zero ChannelSpec reported valid")
	}
	if s.NumChannels() != 0 {
		t.Errorf("NumChannels() = %d, want 0", s.NumChannels())
	}
	if s.String() != "invalid" {
		t.Errorf("String() = %q", s.String())
	}
}

// TestChannelSpecSharing tests that specs over the same color space borrow
// the same descriptor pointer.
func TestChannelSpecSharing(t *testing.T) {
	a := NewChannelSpec(RGB, true)
	if a.ColorSpace() != ChannelsRGBA.ColorSpace() {
		t.Error("NewChannelSpec did not borrow the shared RGB descriptor")
	}
	if !a.HasAlpha() {
		t.Error("HasAlpha() = false")
	}
}
