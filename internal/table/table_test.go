package table

import (
	"testing"

	"asapcabinetfe/internal/role"
)

func TestMediaPathsPrefersConfiguredRole(t *testing.T) {
	r := &Record{
		PlayfieldVideo: "pf.mp4",
		PlayfieldImage: "pf.png",
		BackglassImage: "bg.png",
	}

	if video, image := r.MediaPaths(role.Playfield); video != "pf.mp4" || image != "pf.png" {
		t.Fatalf("Playfield: got (%q, %q)", video, image)
	}
	if video, image := r.MediaPaths(role.Backglass); video != "" || image != "bg.png" {
		t.Fatalf("Backglass: got (%q, %q)", video, image)
	}
	if video, image := r.MediaPaths(role.DMD); video != "" || image != "" {
		t.Fatalf("DMD: expected empty paths, got (%q, %q)", video, image)
	}
}

func TestMediaPathsUnknownRole(t *testing.T) {
	r := &Record{PlayfieldVideo: "pf.mp4"}
	if video, image := r.MediaPaths(role.Role("speaker")); video != "" || image != "" {
		t.Fatalf("expected empty paths for unknown role, got (%q, %q)", video, image)
	}
}
