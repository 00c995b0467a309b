package factory

import (
	"fmt"
	"sync"

	"github.com/danghoangnhan/vidscribe/internal/backend"
	"github.com/danghoangnhan/vidscribe/internal/config"
	"github.com/danghoangnhan/vidscribe/internal/domain"
	"github.com/danghoangnhan/vidscribe/internal/downloader"
	"github.com/danghoangnhan/vidscribe/internal/extractor"
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/internal/storage"
	"github.com/danghoangnhan/vidscribe/pkg/executor"
)

// Factory builds the pipeline's gateways from configuration and
// memoizes them, so every caller shares one instance per kind.
type Factory struct {
	cfg  *config.Config
	log  logger.Logger
	exec executor.Executor

	mu    sync.Mutex
	cache map[string]any
}

// Dependencies is the full gateway set a processor needs.
type Dependencies struct {
	Downloader downloader.Downloader
	Extractor  extractor.Extractor
	Storage    storage.Storage
	Selector   *backend.Selector
}

// New creates a Factory over the given configuration.
func New(cfg *config.Config, log logger.Logger) *Factory {
	return &Factory{
		cfg:   cfg,
		log:   log,
		exec:  executor.New(),
		cache: make(map[string]any),
	}
}

// cached returns the memoized instance for key, building it on first
// use. Construction errors are not cached so a retry can succeed.
func (f *Factory) cached(key string, build func() (any, error)) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cachedLocked(key, build)
}

// cachedLocked is cached for callers already holding f.mu.
func (f *Factory) cachedLocked(key string, build func() (any, error)) (any, error) {
	if v, ok := f.cache[key]; ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		return nil, err
	}
	f.cache[key] = v
	return v, nil
}

// Downloader returns the shared media downloader.
func (f *Factory) Downloader() downloader.Downloader {
	v, _ := f.cached("downloader", func() (any, error) {
		return downloader.New(f.cfg.Download, f.exec, f.log), nil
	})
	return v.(downloader.Downloader)
}

// Extractor returns the shared audio extractor.
func (f *Factory) Extractor() extractor.Extractor {
	v, _ := f.cached("extractor", func() (any, error) {
		return extractor.New(f.exec, f.log), nil
	})
	return v.(extractor.Extractor)
}

// Storage returns the shared persistence layer.
func (f *Factory) Storage() (storage.Storage, error) {
	v, err := f.cached("storage", func() (any, error) {
		return storage.OpenSQLite(f.cfg.Storage.Path)
	})
	if err != nil {
		return nil, err
	}
	return v.(storage.Storage), nil
}

// AIBackend returns the shared backend instance for name.
func (f *Factory) AIBackend(name string) (backend.AIBackend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backendLocked(name)
}

func (f *Factory) backendLocked(name string) (backend.AIBackend, error) {
	v, err := f.cachedLocked("backend:"+name, func() (any, error) {
		switch name {
		case "gemini":
			return backend.NewGemini(f.cfg.Backends.Gemini, f.log), nil
		case "whisper":
			return backend.NewWhisper(f.cfg.Backends.Whisper, f.exec, f.log), nil
		default:
			return nil, domain.ConfigurationInvalid(fmt.Sprintf("unknown backend %q", name))
		}
	})
	if err != nil {
		return nil, err
	}
	return v.(backend.AIBackend), nil
}

// Selector returns the shared backend selector with the configured
// default backend active.
func (f *Factory) Selector() (*backend.Selector, error) {
	v, err := f.cached("selector", func() (any, error) {
		whisper, err := f.backendLocked("whisper")
		if err != nil {
			return nil, err
		}
		gemini, err := f.backendLocked("gemini")
		if err != nil {
			return nil, err
		}
		s := backend.NewSelector(f.log, whisper, gemini)
		if err := s.Select(f.cfg.Backends.Default); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*backend.Selector), nil
}

// CreateAll builds every gateway the processor needs.
func (f *Factory) CreateAll() (*Dependencies, error) {
	store, err := f.Storage()
	if err != nil {
		return nil, err
	}
	sel, err := f.Selector()
	if err != nil {
		return nil, err
	}
	return &Dependencies{
		Downloader: f.Downloader(),
		Extractor:  f.Extractor(),
		Storage:    store,
		Selector:   sel,
	}, nil
}

// Close releases resources held by built gateways.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if v, ok := f.cache["storage"]; ok {
		return v.(storage.Storage).Close()
	}
	return nil
}
