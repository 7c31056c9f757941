package model

// Context is a kind of page element a menu item is shown for.
type Context string

const (
	// ContextImage shows the item when the user right-clicks an image.
	ContextImage Context = "image"

	// ContextAll shows the item everywhere.
	ContextAll Context = "all"
)

// MenuNode is one context-menu item. Nodes are recreated on every install and
// startup event and have no identity beyond the running session.
type MenuNode struct {
	// ID is unique among the registered nodes.
	ID string `json:"id"`

	// ParentID is empty for top-level nodes.
	ParentID string `json:"parent_id,omitempty"`

	// Title is the visible label.
	Title string `json:"title"`

	// Contexts lists where the node is visible.
	Contexts []Context `json:"contexts"`
}

// VisibleIn reports whether the node is shown for the given context.
func (n MenuNode) VisibleIn(c Context) bool {
	for _, nc := range n.Contexts {
		if nc == c || nc == ContextAll {
			return true
		}
	}
	return false
}

// ClickInfo describes a click on a context-menu item.
type ClickInfo struct {
	// MenuItemID is the id of the clicked node.
	MenuItemID string `json:"menu_item_id"`

	// SrcURL is the source URL of the clicked element; empty for non-media elements.
	SrcURL string `json:"src_url,omitempty"`

	// PageURL is the URL of the page the click happened on.
	PageURL string `json:"page_url,omitempty"`

	// MediaType is "image", "video" or "audio" for media elements.
	MediaType string `json:"media_type,omitempty"`
}
