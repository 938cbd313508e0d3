package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-walk/common"
)

func TestKeyStates(t *testing.T) {
	k := newKeyStates()

	if k.down(common.KeyW) || k.consumePress(common.KeyW) {
		t.Fatalf("unseen key: expected up and not pressed")
	}

	k.record(common.KeyW, keyPress)
	if !k.down(common.KeyW) {
		t.Errorf("press: expected down")
	}
	if !k.consumePress(common.KeyW) {
		t.Errorf("press: expected a fresh press")
	}
	if k.consumePress(common.KeyW) {
		t.Errorf("press: expected the press to be reported once")
	}

	k.record(common.KeyW, keyRepeat)
	if !k.down(common.KeyW) {
		t.Errorf("repeat: expected down")
	}
	if k.consumePress(common.KeyW) {
		t.Errorf("repeat: expected no fresh press")
	}

	k.record(common.KeyW, keyReleased)
	if k.down(common.KeyW) {
		t.Errorf("release: expected up")
	}
}

func TestKeyPressSurvivesRelease(t *testing.T) {
	k := newKeyStates()

	// a tap shorter than one tick still fires its command
	k.record(common.KeyT, keyPress)
	k.record(common.KeyT, keyReleased)
	if k.down(common.KeyT) {
		t.Errorf("tap: expected up")
	}
	if !k.consumePress(common.KeyT) {
		t.Errorf("tap: expected the press to be reported")
	}
}

func TestRelativeCursor(t *testing.T) {
	tests := []struct {
		x, y         float64
		w, h         int
		wantX, wantY float64
	}{
		{400, 300, 800, 600, 0.5, 0.5},
		{800, 0, 800, 600, 1, 0},
		{100, 100, 0, 600, 0, 0},
		{100, 100, 800, 0, 0, 0},
	}
	for _, tt := range tests {
		gx, gy := relativeCursor(tt.x, tt.y, tt.w, tt.h)
		if gx != tt.wantX || gy != tt.wantY {
			t.Errorf("relativeCursor(%v, %v, %d, %d): expected (%v, %v), got (%v, %v)",
				tt.x, tt.y, tt.w, tt.h, tt.wantX, tt.wantY, gx, gy)
		}
	}
}
