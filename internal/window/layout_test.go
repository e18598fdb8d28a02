package window

import "testing"

func TestResolveSize_KeepCurrent(t *testing.T) {
	// -1/-1 keeps whatever size the target already has.
	w, h := ResolveSize(-1, -1, 1280, 720, 2560, 1440)
	if w != 1280 || h != 720 {
		t.Fatalf("expected 1280x720, got %dx%d", w, h)
	}
}

func TestResolveSize_FillHost(t *testing.T) {
	// 0/0 fills the host client area.
	w, h := ResolveSize(0, 0, 1280, 720, 2560, 1440)
	if w != 2560 || h != 1440 {
		t.Fatalf("expected 2560x1440, got %dx%d", w, h)
	}
}

func TestResolveSize_Explicit(t *testing.T) {
	// Positive values pass through untouched.
	w, h := ResolveSize(1920, 1080, 1280, 720, 2560, 1440)
	if w != 1920 || h != 1080 {
		t.Fatalf("expected 1920x1080, got %dx%d", w, h)
	}
}

func TestResolveSize_MixedSentinels(t *testing.T) {
	// Axes resolve independently: keep current width, fill host height.
	w, h := ResolveSize(-1, 0, 800, 600, 1920, 1200)
	if w != 800 || h != 1200 {
		t.Fatalf("expected 800x1200, got %dx%d", w, h)
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		name         string
		hostW, hostH int
		w, h         int
		wantX, wantY int
	}{
		// (1920-1280)/2 = 320, (1080-720)/2 = 180
		{"even margins", 1920, 1080, 1280, 720, 320, 180},
		// (1921-1280)/2 = 641/2 = 320 truncated
		{"odd margin truncates", 1921, 1081, 1280, 720, 320, 180},
		// target larger than host: (1280-1920)/2 = -320
		{"oversized target goes negative", 1280, 720, 1920, 1080, -320, -180},
		// (1279-1920)/2 = -641/2 = -320 (truncation toward zero)
		{"negative odd margin truncates toward zero", 1279, 719, 1920, 1080, -320, -180},
		{"exact fit", 1920, 1080, 1920, 1080, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Center(tt.hostW, tt.hostH, tt.w, tt.h)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("expected (%d,%d), got (%d,%d)", tt.wantX, tt.wantY, x, y)
			}
		})
	}
}
