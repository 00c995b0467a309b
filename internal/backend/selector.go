package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/danghoangnhan/vidscribe/internal/domain"
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/pkg/resilience"
)

// taskPreference is the static, deterministic ordering of backends per
// task: whisper is the stronger speech-to-text engine, gemini the
// stronger language generator. Unavailable backends are skipped at
// call time.
var taskPreference = map[Task][]string{
	TaskTranscription: {"whisper", "gemini"},
	TaskSummarization: {"gemini", "whisper"},
}

// Selector holds the set of AI backends and picks the best one per
// task, falling through to the next-best candidate on failure.
type Selector struct {
	mu       sync.RWMutex
	backends map[string]AIBackend
	active   string
	logger   logger.Logger
}

// NewSelector creates a Selector over the given backends. The first
// backend becomes the active one until Select changes it.
func NewSelector(log logger.Logger, backends ...AIBackend) *Selector {
	s := &Selector{
		backends: make(map[string]AIBackend, len(backends)),
		logger:   log,
	}
	for _, b := range backends {
		if s.active == "" {
			s.active = b.Name()
		}
		s.backends[b.Name()] = b
	}
	return s
}

// Select switches the active backend explicitly.
func (s *Selector) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.backends[name]; !ok {
		return domain.ConfigurationInvalid(fmt.Sprintf("unknown backend %q", name))
	}
	s.active = name
	return nil
}

// Active returns the explicitly selected backend.
func (s *Selector) Active() AIBackend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backends[s.active]
}

// BestFor returns the most preferred backend for the task that is
// currently available.
func (s *Selector) BestFor(ctx context.Context, task Task) (AIBackend, error) {
	candidates := s.candidatesFor(ctx, task, "")
	if len(candidates) == 0 {
		return nil, domain.ProviderUnavailable("", fmt.Sprintf("no backend available for %s", task), nil).
			WithDetail("task", string(task))
	}
	return candidates[0], nil
}

// candidatesFor returns the available backends for task in preference
// order, filtered to those accepting the language when one is given.
func (s *Selector) candidatesFor(ctx context.Context, task Task, language string) []AIBackend {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []AIBackend
	for _, name := range taskPreference[task] {
		b, ok := s.backends[name]
		if !ok || !b.IsAvailable(ctx) {
			continue
		}
		if language != "" && !supportsLanguage(b, language) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// TranscribeWithBest transcribes via the best available backend,
// falling through to the next-best candidate when one fails. Returns
// the transcript and the name of the backend that produced it.
func (s *Selector) TranscribeWithBest(ctx context.Context, audioPath, language string) (string, string, error) {
	candidates := s.candidatesFor(ctx, TaskTranscription, language)
	if len(candidates) == 0 {
		return "", "", domain.ProviderUnavailable("", "no backend available for transcription", nil).
			WithDetail("task", string(TaskTranscription)).
			WithDetail("language", language)
	}

	var text, used string
	ops := make([]resilience.Operation, 0, len(candidates))
	for _, b := range candidates {
		ops = append(ops, func(ctx context.Context) error {
			out, err := b.Transcribe(ctx, audioPath, language)
			if err != nil {
				s.logger.Warn(ctx, "backend %s failed to transcribe: %v", b.Name(), err)
				return domain.ProviderUnavailable(b.Name(), "transcription failed", err)
			}
			text, used = out, b.Name()
			return nil
		})
	}

	if err := resilience.FirstOf(ctx, ops...); err != nil {
		return "", "", err
	}
	return text, used, nil
}

// SummarizeWithBest summarizes via the best available backend, falling
// through to the next-best candidate when one fails.
func (s *Selector) SummarizeWithBest(ctx context.Context, text, contextHint string) (string, string, error) {
	candidates := s.candidatesFor(ctx, TaskSummarization, "")
	if len(candidates) == 0 {
		return "", "", domain.ProviderUnavailable("", "no backend available for summarization", nil).
			WithDetail("task", string(TaskSummarization))
	}

	var summary, used string
	ops := make([]resilience.Operation, 0, len(candidates))
	for _, b := range candidates {
		ops = append(ops, func(ctx context.Context) error {
			out, err := b.Summarize(ctx, text, contextHint)
			if err != nil {
				s.logger.Warn(ctx, "backend %s failed to summarize: %v", b.Name(), err)
				return domain.ProviderUnavailable(b.Name(), "summarization failed", err)
			}
			summary, used = out, b.Name()
			return nil
		})
	}

	if err := resilience.FirstOf(ctx, ops...); err != nil {
		return "", "", err
	}
	return summary, used, nil
}

func supportsLanguage(b AIBackend, language string) bool {
	for _, l := range b.SupportedLanguages() {
		if l == language || l == "auto" {
			return true
		}
	}
	return false
}
