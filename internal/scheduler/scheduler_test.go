package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danghoangnhan/vidscribe/internal/domain"
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/internal/usecase"
)

type fakeProcessor struct {
	mu      sync.Mutex
	batches [][]string
	block   chan struct{}
}

func (p *fakeProcessor) Process(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResponse, error) {
	return nil, nil
}

func (p *fakeProcessor) ProcessBatch(ctx context.Context, sources []string, opts usecase.BatchOptions) (*usecase.BatchReport, error) {
	p.mu.Lock()
	p.batches = append(p.batches, sources)
	p.mu.Unlock()
	if p.block != nil {
		<-p.block
	}
	return &usecase.BatchReport{}, nil
}

func (p *fakeProcessor) batchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.batches)
}

func TestNewRejectsBadExpression(t *testing.T) {
	_, err := New("not a cron expr", t.TempDir(), &fakeProcessor{}, usecase.BatchOptions{}, logger.Nop())
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestScanSkipsEmptyDir(t *testing.T) {
	proc := &fakeProcessor{}
	s, err := New("* * * * *", t.TempDir(), proc, usecase.BatchOptions{}, logger.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	s.scan()
	if got := proc.batchCount(); got != 0 {
		t.Fatalf("batchCount = %d, want 0 for empty dir", got)
	}
}

func TestScanProcessesDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := &fakeProcessor{}
	s, err := New("* * * * *", dir, proc, usecase.BatchOptions{}, logger.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	s.scan()
	if got := proc.batchCount(); got != 1 {
		t.Fatalf("batchCount = %d, want 1", got)
	}
}

func TestScanSkipsWhileRunning(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := &fakeProcessor{block: make(chan struct{})}
	s, err := New("* * * * *", dir, proc, usecase.BatchOptions{}, logger.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.scan()
		close(done)
	}()

	// Wait for the first scan to reach the processor, then tick again.
	for i := 0; i < 100 && proc.batchCount() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	s.scan()

	close(proc.block)
	<-done

	if got := proc.batchCount(); got != 1 {
		t.Fatalf("batchCount = %d, want 1 (overlapping tick must be skipped)", got)
	}
}
