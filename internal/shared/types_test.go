package shared

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID("user_")
	if !strings.HasPrefix(id, "user_") {
		t.Errorf("expected prefix 'user_', got '%s'", id)
	}
	if len(id) != len("user_")+32 {
		t.Errorf("expected 32 hex chars after prefix, got len %d", len(id))
	}
	if NewID("user_") == id {
		t.Error("two generated ids should not collide")
	}
}

func TestParseAvatar(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     AvatarKind
		ref      string
	}{
		{
			name:  "empty",
			input: "",
			kind:  AvatarNone,
		},
		{
			name:  "local filename",
			input: "abc123.png",
			kind:  AvatarLocalFile,
			ref:   "abc123.png",
		},
		{
			name:  "https url",
			input: "https://lh3.googleusercontent.com/a/photo.jpg",
			kind:  AvatarExternalURL,
			ref:   "https://lh3.googleusercontent.com/a/photo.jpg",
		},
		{
			name:  "http url",
			input: "http://example.com/p.jpg",
			kind:  AvatarExternalURL,
			ref:   "http://example.com/p.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ParseAvatar(tt.input)
			if a.Kind() != tt.kind {
				t.Errorf("expected kind %d, got %d", tt.kind, a.Kind())
			}
			if a.Ref() != tt.ref {
				t.Errorf("expected ref '%s', got '%s'", tt.ref, a.Ref())
			}
		})
	}
}

func TestAvatar_ValueScanRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		avatar Avatar
	}{
		{name: "none", avatar: NoAvatar()},
		{name: "local", avatar: LocalFile("me.png")},
		{name: "external", avatar: ExternalURL("https://example.com/me.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.avatar.Value()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got Avatar
			if err := got.Scan(v); err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			if got != tt.avatar {
				t.Errorf("expected %+v, got %+v", tt.avatar, got)
			}
		})
	}
}

func TestAvatar_ScanNil(t *testing.T) {
	a := LocalFile("stale.png")
	if err := a.Scan(nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !a.IsZero() {
		t.Error("scanning nil should yield NoAvatar")
	}
}

func TestAvatar_ScanUnsupportedType(t *testing.T) {
	var a Avatar
	if err := a.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestLocalFile_Empty(t *testing.T) {
	if !LocalFile("").IsZero() {
		t.Error("LocalFile(\"\") should be NoAvatar")
	}
	if !ExternalURL("").IsZero() {
		t.Error("ExternalURL(\"\") should be NoAvatar")
	}
}
