package common

import "testing"

func TestSolidTexture(t *testing.T) {
	tex := SolidTexture(TextureKindNormal, FlatNormalPixel)
	if tex.Width != 1 || tex.Height != 1 || len(tex.Pixels) != 4 {
		t.Fatalf("solid texture size: expected 1x1 with 4 bytes, got %dx%d with %d", tex.Width, tex.Height, len(tex.Pixels))
	}
	if tex.Format != TextureKindNormal.Format() {
		t.Errorf("format: expected %v, got %v", TextureKindNormal.Format(), tex.Format)
	}
}
