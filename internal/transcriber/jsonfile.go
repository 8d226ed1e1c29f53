package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type payload struct {
	Segments []Segment `json:"segments"`
}

// JSONFile reads a whisper-style transcript JSON written by an external
// speech-to-text run ({"segments": [{start, end, text, words}]}). It ignores
// the audio path passed to Transcribe; the transcript was produced for that
// audio out of band.
type JSONFile struct {
	path string
}

// NewJSONFile builds a transcript backend over the given file. An empty path
// yields an unavailable backend.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: strings.TrimSpace(path)}
}

func (j *JSONFile) Available() bool {
	if j == nil || j.path == "" {
		return false
	}
	info, err := os.Stat(j.path)
	return err == nil && !info.IsDir()
}

func (j *JSONFile) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !j.Available() {
		return nil, fmt.Errorf("transcript file %q not available", j.path)
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}
	segments := make([]Segment, 0, len(p.Segments))
	for _, seg := range p.Segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" || seg.End <= seg.Start {
			continue
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// Unavailable is the absent transcript collaborator. The engine pairs it with
// the script-driven cue builder.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Transcribe(context.Context, string) ([]Segment, error) {
	return nil, fmt.Errorf("no transcription backend configured")
}
