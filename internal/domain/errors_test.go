package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantKind  ErrorKind
		transient bool
	}{
		{"format invalid", FormatInvalid("id", "", "must not be empty"), KindFormatInvalid, false},
		{"download failed", DownloadFailed("https://x", "timeout", nil), KindDownloadFailed, true},
		{"processing failed", ProcessingFailed("extract_audio", "not a media file", nil), KindProcessingFailed, false},
		{"provider unavailable", ProviderUnavailable("gemini", "quota exceeded", nil), KindProviderUnavailable, true},
		{"configuration invalid", ConfigurationInvalid("missing api key"), KindConfigurationInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if KindOf(tt.err) != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", KindOf(tt.err), tt.wantKind)
			}
			if IsTransient(tt.err) != tt.transient {
				t.Errorf("IsTransient() = %v, want %v", IsTransient(tt.err), tt.transient)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := DownloadFailed("https://example.com/v", "unreachable", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	wrapped := fmt.Errorf("stage download: %w", err)
	if KindOf(wrapped) != KindDownloadFailed {
		t.Errorf("KindOf(wrapped) = %v, want %v", KindOf(wrapped), KindDownloadFailed)
	}
	if !IsTransient(wrapped) {
		t.Error("IsTransient should see through fmt.Errorf wrapping")
	}

	// Kind matching via errors.Is on a bare sentinel.
	if !errors.Is(err, &Error{Kind: KindDownloadFailed}) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, &Error{Kind: KindProcessingFailed}) {
		t.Error("errors.Is matched the wrong kind")
	}
}

func TestErrorMessage(t *testing.T) {
	err := ProviderUnavailable("whisper", "binary not found", fmt.Errorf("exec: not found"))
	msg := err.Error()

	for _, want := range []string{"provider_unavailable", "backend=whisper", "binary not found", "exec: not found"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(fmt.Errorf("plain")) != "" {
		t.Error("KindOf should be empty for non-pipeline errors")
	}
	if IsTransient(fmt.Errorf("plain")) {
		t.Error("IsTransient should be false for non-pipeline errors")
	}
}
