package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONFileTranscribe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.json")
	content := `{
  "segments": [
    {"start": 0.0, "end": 2.5, "text": "hello world", "words": [
      {"word": "hello", "start": 0.0, "end": 1.0},
      {"word": "world", "start": 1.1, "end": 2.5}
    ]},
    {"start": 2.5, "end": 2.5, "text": "zero length"},
    {"start": 3.0, "end": 4.0, "text": "  "}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	backend := NewJSONFile(path)
	if !backend.Available() {
		t.Fatal("expected backend to be available")
	}
	segments, err := backend.Transcribe(context.Background(), "audio.mp3")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected degenerate segments filtered, got %d", len(segments))
	}
	if !segments[0].HasWordTimestamps() {
		t.Fatal("expected word timestamps")
	}
}

func TestJSONFileUnavailableWhenMissing(t *testing.T) {
	backend := NewJSONFile(filepath.Join(t.TempDir(), "nope.json"))
	if backend.Available() {
		t.Fatal("expected missing file to be unavailable")
	}
	if _, err := backend.Transcribe(context.Background(), "audio.mp3"); err == nil {
		t.Fatal("expected error for missing transcript")
	}
}

func TestUnavailableBackend(t *testing.T) {
	var backend Unavailable
	if backend.Available() {
		t.Fatal("expected unavailable")
	}
	if _, err := backend.Transcribe(context.Background(), "audio.mp3"); err == nil {
		t.Fatal("expected error")
	}
}

func TestWordMidpointsFallsBackToSegments(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2, Text: "a", Words: []Word{{Word: "a", Start: 0, End: 2}}},
		{Start: 2, End: 6, Text: "b"},
	}
	midpoints := WordMidpoints(segments)
	if len(midpoints) != 2 {
		t.Fatalf("expected 2 midpoints, got %d", len(midpoints))
	}
	if midpoints[0] != 1 || midpoints[1] != 4 {
		t.Fatalf("unexpected midpoints %v", midpoints)
	}
}
