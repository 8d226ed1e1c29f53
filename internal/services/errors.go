package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrDependency    = errors.New("dependency unavailable")
	ErrIntegrity     = errors.New("integrity error")
	ErrVerbatim      = errors.New("verbatim violation")
	ErrQC            = errors.New("qc failure")
	ErrValidation    = errors.New("validation error")
	ErrExternalTool  = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an engine error to the process exit code the CLI should use.
// Configuration, dependency, and integrity errors abort before any caption
// file exists; verbatim and QC failures occur later and get distinct codes so
// calling pipelines can branch on them.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrDependency), errors.Is(err, ErrIntegrity):
		return 2
	case errors.Is(err, ErrVerbatim):
		return 3
	case errors.Is(err, ErrQC):
		return 4
	default:
		return 1
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
