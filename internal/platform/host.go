package platform

import (
	"context"
	"sync"

	"github.com/nao1215/imgsaveas/internal/model"
)

// Host is an in-process event bus implementing Events.
// Handlers run synchronously in registration order.
type Host struct {
	mu        sync.RWMutex
	installed []LifecycleHandler
	startup   []LifecycleHandler
	clicked   []ClickHandler
}

// NewHost creates a Host with no handlers.
func NewHost() *Host {
	return &Host{}
}

// OnInstalled implements Events.
func (h *Host) OnInstalled(handler LifecycleHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.installed = append(h.installed, handler)
}

// OnStartup implements Events.
func (h *Host) OnStartup(handler LifecycleHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.startup = append(h.startup, handler)
}

// OnMenuClicked implements Events.
func (h *Host) OnMenuClicked(handler ClickHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clicked = append(h.clicked, handler)
}

// Install fires the install event.
func (h *Host) Install(ctx context.Context) {
	h.mu.RLock()
	handlers := append([]LifecycleHandler(nil), h.installed...)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx)
	}
}

// Startup fires the startup event.
func (h *Host) Startup(ctx context.Context) {
	h.mu.RLock()
	handlers := append([]LifecycleHandler(nil), h.startup...)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx)
	}
}

// Click fires a menu click event.
func (h *Host) Click(ctx context.Context, info model.ClickInfo) {
	h.mu.RLock()
	handlers := append([]ClickHandler(nil), h.clicked...)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, info)
	}
}
