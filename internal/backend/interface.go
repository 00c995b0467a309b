package backend

import "context"

// Task is the kind of AI work a backend is asked to do. The selector's
// preference ordering is keyed by task.
type Task string

const (
	TaskTranscription Task = "transcription"
	TaskSummarization Task = "summarization"
)

// AIBackend is the transcribe/summarize capability. Implementations
// are fully interchangeable; callers must not depend on anything
// beyond this contract. Implementations return plain errors; the
// selector translates them into provider-unavailable signals.
type AIBackend interface {
	// Transcribe converts the audio file at audioPath into text.
	Transcribe(ctx context.Context, audioPath, language string) (string, error)

	// Summarize produces a summary of text. contextHint carries
	// optional framing (e.g. the video title) for the prompt.
	Summarize(ctx context.Context, text, contextHint string) (string, error)

	// SupportedLanguages returns the languages the backend accepts.
	SupportedLanguages() []string

	// Name returns the backend's stable identifier.
	Name() string

	// IsAvailable is a cheap liveness check with no side effects.
	IsAvailable(ctx context.Context) bool
}
