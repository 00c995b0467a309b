package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

// Both implementations must satisfy the same contract, so every test
// runs against both.
func openStores(t *testing.T) map[string]Storage {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Storage{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func sampleVideo(t *testing.T, id string) *domain.Video {
	t.Helper()
	v, err := domain.NewVideo(id, "Sample "+id, 42, "", "https://example.com/v/"+id)
	if err != nil {
		t.Fatal(err)
	}
	v.SetMeta("uploader", "someone")
	return v
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			v := sampleVideo(t, "abc123")
			v.SetSummary("a short summary")

			if err := store.Save(ctx, v); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if err := store.SaveTranscript(ctx, v.ID, "hello world", map[string]string{"language": "en"}); err != nil {
				t.Fatalf("SaveTranscript() error = %v", err)
			}

			got, err := store.Load(ctx, v.ID)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got == nil {
				t.Fatal("Load() = nil for saved id")
			}
			if got.ID != v.ID || got.Title != v.Title || got.Duration != v.Duration || got.URL != v.URL {
				t.Errorf("Load() = %+v, want %+v", got, v)
			}
			if got.Summary != "a short summary" {
				t.Errorf("Summary = %q", got.Summary)
			}
			if got.Transcription != "hello world" {
				t.Errorf("Transcription = %q", got.Transcription)
			}
			if got.Metadata["uploader"] != "someone" {
				t.Errorf("Metadata = %v", got.Metadata)
			}
		})
	}
}

func TestLoadUnknownID(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Load(ctx, "no-such-id")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != nil {
				t.Errorf("Load() = %+v, want nil", got)
			}

			text, err := store.LoadTranscript(ctx, "no-such-id")
			if err != nil || text != "" {
				t.Errorf("LoadTranscript() = (%q, %v), want empty", text, err)
			}
		})
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			v := sampleVideo(t, "abc123")
			if err := store.Save(ctx, v); err != nil {
				t.Fatal(err)
			}

			v.SetSummary("revised")
			if err := store.Save(ctx, v); err != nil {
				t.Fatalf("second Save() error = %v", err)
			}

			list, err := store.List(ctx, 10, 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 1 {
				t.Fatalf("List() returned %d rows, want 1 (save must overwrite, not duplicate)", len(list))
			}
			if list[0].Summary != "revised" {
				t.Errorf("Summary = %q, want %q", list[0].Summary, "revised")
			}
		})
	}
}

func TestTranscriptOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			v := sampleVideo(t, "abc123")
			if err := store.Save(ctx, v); err != nil {
				t.Fatal(err)
			}

			if err := store.SaveTranscript(ctx, v.ID, "first", nil); err != nil {
				t.Fatal(err)
			}
			if err := store.SaveTranscript(ctx, v.ID, "second", nil); err != nil {
				t.Fatal(err)
			}

			text, err := store.LoadTranscript(ctx, v.ID)
			if err != nil {
				t.Fatal(err)
			}
			if text != "second" {
				t.Errorf("LoadTranscript() = %q, want %q", text, "second")
			}
		})
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"vid-a", "vid-b", "vid-c"} {
				if err := store.Save(ctx, sampleVideo(t, id)); err != nil {
					t.Fatal(err)
				}
			}

			page, err := store.List(ctx, 2, 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(page) != 2 {
				t.Errorf("List(2, 0) returned %d rows", len(page))
			}

			rest, err := store.List(ctx, 2, 2)
			if err != nil {
				t.Fatal(err)
			}
			if len(rest) != 1 {
				t.Errorf("List(2, 2) returned %d rows", len(rest))
			}

			empty, err := store.List(ctx, 2, 10)
			if err != nil {
				t.Fatal(err)
			}
			if len(empty) != 0 {
				t.Errorf("List beyond end returned %d rows", len(empty))
			}
		})
	}
}
