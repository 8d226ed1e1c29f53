package captions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"techsprint/internal/captions/layout"
	"techsprint/internal/config"
	"techsprint/internal/logging"
	"techsprint/internal/media/ffprobe"
	"techsprint/internal/render"
	"techsprint/internal/services"
	"techsprint/internal/textutil"
	"techsprint/internal/transcriber"
)

// Engine runs the caption pipeline end to end: normalize, build, enforce,
// repair, guard, and serialize.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
	stt    transcriber.Transcriber

	geom   render.Geometry
	limits Limits
	box    layout.Box
}

// Request carries one generation job.
type Request struct {
	ScriptText string
	AudioPath  string
	// AudioDuration overrides probing when > 0.
	AudioDuration float64
	// NarrationDigest, when set, must match the normalized script digest.
	// A mismatch means the narration audio was produced from different text
	// and the captions would drift from what the viewer hears.
	NarrationDigest string
	OutputDir       string
	BaseName        string
}

// Artifact describes the generated caption files.
type Artifact struct {
	ID         string      `json:"id"`
	Path       string      `json:"path"`
	StyledPath string      `json:"styled_path,omitempty"`
	TextDigest string      `json:"text_digest"`
	Source     string      `json:"source"`
	CueCount   int         `json:"cue_count"`
	Stats      Stats       `json:"stats"`
	LayoutOK   bool        `json:"layout_ok"`
	LayoutBox  layout.BBox `json:"layout_box"`
	Repairs    []string    `json:"repairs,omitempty"`
	Cues       []Cue       `json:"-"`
}

// NewEngine validates the configured mode and profile and precomputes the
// layout for the selected geometry.
func NewEngine(cfg *config.Config, logger *slog.Logger, stt transcriber.Transcriber) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if stt == nil {
		stt = transcriber.Unavailable{}
	}
	switch cfg.Captions.Mode {
	case "auto", "asr", "heuristic":
	default:
		return nil, services.Wrap(services.ErrConfiguration, "captions", "engine setup",
			fmt.Sprintf("unknown caption mode %q", cfg.Captions.Mode), nil)
	}
	geom, err := render.Lookup(cfg.Captions.Profile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "captions", "engine setup",
			fmt.Sprintf("unknown render profile %q (have %s)",
				cfg.Captions.Profile, strings.Join(render.Names(), ", ")), nil)
	}
	limits := DefaultLimits().ForGeometry(geom)
	if cfg.Captions.MaxCharsPerLine > 0 {
		limits.MaxCharsPerLine = cfg.Captions.MaxCharsPerLine
	}
	if cfg.Captions.MaxWordsPerCue > 0 {
		limits.MaxWordsPerCue = cfg.Captions.MaxWordsPerCue
	}
	return &Engine{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "captions"),
		stt:    stt,
		geom:   geom,
		limits: limits,
		box:    layout.Compute(geom, limits.MaxLines, limits.MaxCharsPerLine),
	}, nil
}

// Limits exposes the effective broadcast limits for this engine.
func (e *Engine) Limits() Limits { return e.limits }

// Geometry exposes the selected render geometry.
func (e *Engine) Geometry() render.Geometry { return e.geom }

// Box exposes the computed layout box.
func (e *Engine) Box() layout.Box { return e.box }

// Generate produces the caption files for a request and returns the
// artifact record. No file is written when the digest guard or the verbatim
// guard fails.
func (e *Engine) Generate(ctx context.Context, req Request) (*Artifact, error) {
	source := Normalize(req.ScriptText)
	if source == "" {
		return nil, services.Wrap(services.ErrValidation, "captions", "generate",
			"script text is empty after normalization", nil)
	}
	digest := textutil.SHA256Text(textutil.NormalizeSpace(source))
	if req.NarrationDigest != "" && req.NarrationDigest != digest {
		return nil, services.Wrap(services.ErrIntegrity, "captions", "generate",
			"narration digest does not match the caption source text", nil)
	}

	duration := req.AudioDuration
	if duration <= 0 {
		probed, ok := ffprobe.ProbeDuration(ctx, e.cfg.FFprobeBinary(), req.AudioPath)
		if !ok {
			return nil, services.Wrap(services.ErrDependency, "captions", "generate",
				fmt.Sprintf("could not probe duration of %s", req.AudioPath), nil)
		}
		duration = probed
	}

	cues, builtFrom, spokenText, err := e.buildCues(ctx, req, source, duration)
	if err != nil {
		return nil, err
	}

	verbatim := e.cfg.Captions.VerbatimPolicy != ""
	cues = EnforceContract(cues, e.limits, e.box, duration, verbatim)
	cues, repairs := RepairIntegrity(cues, e.limits, e.box, duration, verbatim)

	// The verbatim guard runs over the emitted cues, after every
	// content-touching pass.
	switch e.cfg.Captions.VerbatimPolicy {
	case "script":
		if err := CheckVerbatim(source, cues); err != nil {
			return nil, err
		}
	case "audio":
		if spokenText != "" {
			if err := CheckVerbatim(spokenText, cues); err != nil {
				return nil, err
			}
		}
	}

	artifact := &Artifact{
		ID:         uuid.NewString(),
		TextDigest: digest,
		Source:     builtFrom,
		CueCount:   len(cues),
		Stats:      ComputeStats(cues),
		LayoutOK:   e.box.Fits(),
		LayoutBox:  e.box.BBox(),
		Repairs:    repairs,
		Cues:       cues,
	}

	base := req.BaseName
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	}
	base = textutil.SanitizeFileName(base)
	outDir := req.OutputDir
	if outDir == "" {
		outDir = e.cfg.Paths.OutputDir
	}
	artifact.Path = filepath.Join(outDir, base+".srt")
	if err := os.WriteFile(artifact.Path, []byte(MarshalSRT(cues, e.limits)), 0o644); err != nil {
		return nil, services.Wrap(nil, "captions", "generate", "write srt", err)
	}
	if e.cfg.Captions.StyledOutput {
		artifact.StyledPath = filepath.Join(outDir, base+".ass")
		styled := MarshalASS(cues, e.geom, e.box, e.limits)
		if err := os.WriteFile(artifact.StyledPath, []byte(styled), 0o644); err != nil {
			return nil, services.Wrap(nil, "captions", "generate", "write ass", err)
		}
	}

	e.logger.Info("captions generated",
		logging.String(logging.FieldEventType, "captions_generated"),
		logging.String("artifact_id", artifact.ID),
		logging.String("source", artifact.Source),
		logging.Int("cues", artifact.CueCount),
		logging.Float64("duration", duration),
		logging.Bool("layout_ok", artifact.LayoutOK))
	return artifact, nil
}

// buildCues picks the cue source per the configured mode. asr requires the
// transcription collaborator; auto degrades to the script path when it is
// missing or fails; heuristic never transcribes. The third result is the
// joined transcript text, set only on the transcript path, for the audio
// verbatim guard.
func (e *Engine) buildCues(ctx context.Context, req Request, source string, duration float64) ([]Cue, string, string, error) {
	mode := e.cfg.Captions.Mode
	if mode == "heuristic" {
		cues, err := e.scriptCues(source, duration)
		return cues, "script", "", err
	}
	if !e.stt.Available() {
		if mode == "asr" {
			return nil, "", "", services.Wrap(services.ErrDependency, "captions", "transcribe",
				"caption mode is asr but no transcriber is available", nil)
		}
		e.logger.Warn("transcriber unavailable, using script timing",
			logging.String(logging.FieldEventType, "transcriber_unavailable"))
		cues, err := e.scriptCues(source, duration)
		return cues, "script", "", err
	}
	segments, err := e.stt.Transcribe(ctx, req.AudioPath)
	if err != nil || len(segments) == 0 {
		if mode == "asr" {
			return nil, "", "", services.Wrap(services.ErrDependency, "captions", "transcribe",
				"transcription failed", err)
		}
		e.logger.Warn("transcription failed, using script timing",
			logging.Args(logging.Error(err))...)
		cues, serr := e.scriptCues(source, duration)
		return cues, "script", "", serr
	}
	cues := BuildFromTranscript(segments, e.limits)
	if len(cues) == 0 {
		cues, err := e.scriptCues(source, duration)
		return cues, "script", "", err
	}
	var joined []string
	for _, segment := range segments {
		joined = append(joined, segment.Text)
	}
	return cues, "transcript", strings.Join(joined, " "), nil
}

// scriptCues builds proportionally timed cues, with a single full-window
// block as the degenerate fallback.
func (e *Engine) scriptCues(source string, duration float64) ([]Cue, error) {
	cues, err := BuildFromScript(source, duration, e.limits)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "captions", "build cues", "script path", err)
	}
	if len(cues) == 0 {
		cues = []Cue{{Start: 0, End: duration, Text: source}}
	}
	return cues, nil
}
