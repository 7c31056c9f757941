package platform

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nao1215/imgsaveas/internal/model"
)

// MenuRegistry is an in-memory Menus implementation.
// Nodes keep their creation order.
type MenuRegistry struct {
	mu    sync.RWMutex
	nodes []model.MenuNode
	index map[string]int
}

// NewMenuRegistry creates an empty registry.
func NewMenuRegistry() *MenuRegistry {
	return &MenuRegistry{index: make(map[string]int)}
}

// RemoveAll implements Menus.
func (r *MenuRegistry) RemoveAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = nil
	r.index = make(map[string]int)
	return nil
}

// Create implements Menus.
func (r *MenuRegistry) Create(ctx context.Context, node model.MenuNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if node.ID == "" {
		return ErrEmptyMenuID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMenuID, node.ID)
	}
	if node.ParentID != "" {
		if _, exists := r.index[node.ParentID]; !exists {
			return fmt.Errorf("%w: %s", ErrUnknownParent, node.ParentID)
		}
	}

	node.Contexts = slices.Clone(node.Contexts)
	r.index[node.ID] = len(r.nodes)
	r.nodes = append(r.nodes, node)
	return nil
}

// Nodes returns a copy of every node in creation order.
func (r *MenuRegistry) Nodes() []model.MenuNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.nodes)
}

// Lookup returns the node with the given id.
func (r *MenuRegistry) Lookup(id string) (model.MenuNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return model.MenuNode{}, false
	}
	return r.nodes[i], true
}

// Children returns the direct children of parentID in creation order.
// An empty parentID returns the top-level nodes.
func (r *MenuRegistry) Children(parentID string) []model.MenuNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	children := make([]model.MenuNode, 0)
	for _, n := range r.nodes {
		if n.ParentID == parentID {
			children = append(children, n)
		}
	}
	return children
}

// VisibleIn returns the nodes shown for a right-click on the given context.
func (r *MenuRegistry) VisibleIn(c model.Context) []model.MenuNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make([]model.MenuNode, 0, len(r.nodes))
	for _, n := range r.nodes {
		if n.VisibleIn(c) {
			visible = append(visible, n)
		}
	}
	return visible
}
