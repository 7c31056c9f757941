// Package menu builds the "Save image as (custom ext)" context menu and routes
// clicks on it to the conversion pipeline.
//
// The tree is one parent with one child per output format:
//
//	Save image as (custom ext)        custom-save-image-root
//	├── JPEG                          custom-save-image-format-jpeg
//	├── PNG                           custom-save-image-format-png
//	└── WebP                          custom-save-image-format-webp
//
// It is rebuilt from scratch on every install and startup event.
package menu
