package bind_group_provider

import "testing"

func TestNewBindGroupProviderLabel(t *testing.T) {
	p := NewBindGroupProvider("camera", WithIndexCount(36))
	if p.Label() != "camera" {
		t.Errorf("label: expected %q, got %q", "camera", p.Label())
	}
	if p.IndexCount() != 36 {
		t.Errorf("index count: expected 36, got %d", p.IndexCount())
	}
}

func TestReleaseEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetInstanceBuffer(nil, 4)
	p.Release()
	if p.InstanceCapacity() != 0 {
		t.Errorf("instance capacity after release: expected 0, got %d", p.InstanceCapacity())
	}
	if p.Buffer(0) != nil || p.TextureView(0) != nil || p.Sampler(0) != nil {
		t.Errorf("expected no resources after release")
	}
}
