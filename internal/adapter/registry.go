package adapter

import (
	"context"
	"sync"

	"github.com/SweetsNSavories/timeline/internal/config"
	"github.com/SweetsNSavories/timeline/internal/source"
)

// Registry hands out one adapter instance per host record id, mirroring the
// one-instance-per-UI-attach lifecycle for boundaries (HTTP, MCP) that
// multiplex many attaches over one process.
type Registry struct {
	cfg     *config.Config
	gateway source.Gateway
	logger  Logger

	mu       sync.Mutex
	adapters map[string]*Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg *config.Config, gateway source.Gateway, logger Logger) *Registry {
	return &Registry{
		cfg:      cfg,
		gateway:  gateway,
		logger:   logger,
		adapters: make(map[string]*Adapter),
	}
}

// Acquire returns the adapter for the record id, creating and initializing
// it on first use.
func (r *Registry) Acquire(ctx context.Context, recordID string) *Adapter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.adapters[recordID]; ok {
		return a
	}

	a := New(r.cfg, r.gateway, r.logger)
	_ = a.Init(ctx, Context{RecordID: recordID})
	r.adapters[recordID] = a
	return a
}

// Release discards the adapter for the record id, ending its session.
func (r *Registry) Release(recordID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.adapters, recordID)
}
