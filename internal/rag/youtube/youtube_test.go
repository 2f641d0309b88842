package youtube

import "testing"

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", true},
		{"http://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", true},
		{"https://example.com/video", false},
		{"https://vimeo.com/123456", false},
		{"just some text", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsYouTubeURL(tt.url); got != tt.want {
			t.Errorf("IsYouTubeURL(%q) got %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abc_DEF-123", "abc_DEF-123"},
		{"https://example.com/video", ""},
	}

	for _, tt := range tests {
		if got := ExtractVideoID(tt.url); got != tt.want {
			t.Errorf("ExtractVideoID(%q) got %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCleanVideoURL(t *testing.T) {
	got := cleanVideoURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLx&t=42")
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got != want {
		t.Errorf("cleanVideoURL got %q, want %q", got, want)
	}

	unchanged := "https://youtu.be/dQw4w9WgXcQ"
	if got := cleanVideoURL(unchanged); got != unchanged {
		t.Errorf("cleanVideoURL got %q, want unchanged input", got)
	}
}

func TestContextDegraded(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    bool
	}{
		{"transcript present", "Title: talk\n\nTranscript:\nhello world", false},
		{"transcription failed", "Title: talk\n\nTranscription failed: no audio\n", true},
		{"fetch error", "Warning: Limited information available. Error accessing video: 403\n", true},
		{"no transcriber", "Title: talk\n\nTranscription not available.\n", true},
		{"not attempted", "Transcription not attempted due to error accessing video.\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContextDegraded(tt.context); got != tt.want {
				t.Errorf("ContextDegraded got %v, want %v", got, tt.want)
			}
		})
	}
}
