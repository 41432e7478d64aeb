package speech

import "testing"

func TestSpeakerVolume(t *testing.T) {
	tests := []struct {
		name string
		fn   func() int
		want int
	}{
		{"nil means full", nil, 100},
		{"passes through", func() int { return 40 }, 40},
		{"clamps low", func() int { return -5 }, 0},
		{"clamps high", func() int { return 250 }, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Speaker{Volume: tt.fn}).volume(); got != tt.want {
				t.Errorf("volume() = %d, want %d", got, tt.want)
			}
		})
	}
}
