package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

type memoryStorage struct {
	mu          sync.RWMutex
	videos      map[string]domain.Video
	transcripts map[string]string
}

// NewMemory returns an in-memory Storage. Used by tests and as a
// throwaway store when no persistence is wanted.
func NewMemory() Storage {
	return &memoryStorage{
		videos:      map[string]domain.Video{},
		transcripts: map[string]string{},
	}
}

func (m *memoryStorage) Save(ctx context.Context, video *domain.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *video
	cp.Metadata = copyMap(video.Metadata)
	m.videos[video.ID] = cp
	return nil
}

func (m *memoryStorage) Load(ctx context.Context, id string) (*domain.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.videos[id]
	if !ok {
		return nil, nil
	}
	cp := v
	cp.Metadata = copyMap(v.Metadata)
	cp.Transcription = m.transcripts[id]
	return &cp, nil
}

func (m *memoryStorage) SaveTranscript(ctx context.Context, id, text string, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transcripts[id] = text
	return nil
}

func (m *memoryStorage) LoadTranscript(ctx context.Context, id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.transcripts[id], nil
}

func (m *memoryStorage) List(ctx context.Context, limit, offset int) ([]*domain.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*domain.Video, 0, len(m.videos))
	for id := range m.videos {
		v := m.videos[id]
		cp := v
		cp.Metadata = copyMap(v.Metadata)
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryStorage) Close() error {
	return nil
}

func copyMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
