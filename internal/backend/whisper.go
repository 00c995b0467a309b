package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/danghoangnhan/vidscribe/internal/config"
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/pkg/executor"
)

type whisperBackend struct {
	binaryPath string
	modelPath  string
	threads    int
	languages  []string
	timeout    time.Duration
	exec       executor.Executor
	logger     logger.Logger
}

// NewWhisper creates an AIBackend driving a local whisper.cpp binary.
// It only transcribes; Summarize always fails so the selector falls
// through to a generative backend.
func NewWhisper(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) AIBackend {
	return &whisperBackend{
		binaryPath: cfg.BinaryPath,
		modelPath:  cfg.ModelPath,
		threads:    cfg.Threads,
		languages:  cfg.Languages,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		exec:       exec,
		logger:     log,
	}
}

func (w *whisperBackend) Name() string { return "whisper" }

func (w *whisperBackend) SupportedLanguages() []string {
	return w.languages
}

// IsAvailable checks that the binary and model exist on disk.
func (w *whisperBackend) IsAvailable(ctx context.Context) bool {
	if w.binaryPath == "" || w.modelPath == "" {
		return false
	}
	if _, err := os.Stat(w.modelPath); err != nil {
		return false
	}
	if strings.ContainsAny(w.binaryPath, `/\`) {
		_, err := os.Stat(w.binaryPath)
		return err == nil
	}
	return true
}

// Transcribe runs whisper.cpp over the audio file and reads back the
// plain-text output it writes next to the given prefix.
func (w *whisperBackend) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	if language == "" {
		language = "auto"
	}

	w.logger.Info(ctx, "transcribing with whisper (%d threads): %s", w.threads, audioPath)

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-otxt",
		"-l", language,
		"-t", strconv.Itoa(w.threads),
		"--output-file", outputPrefix,
	}

	if _, err := w.exec.Execute(ctx, w.binaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	txtPath := outputPrefix + ".txt"
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	defer os.Remove(txtPath)

	return strings.TrimSpace(string(data)), nil
}

// Summarize is not a capability of whisper.cpp.
func (w *whisperBackend) Summarize(ctx context.Context, text, contextHint string) (string, error) {
	return "", fmt.Errorf("whisper backend does not support summarization")
}
