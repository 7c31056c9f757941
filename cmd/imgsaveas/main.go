// Package main provides the entry point for the imgsaveas CLI.
//
// imgsaveas saves web images in a chosen format (JPEG, PNG or WebP) under a
// file extension of your choosing. It drives the same context-menu,
// preferences and conversion components a browser front end would, from
// the command line.
//
// Usage:
//
//	imgsaveas save --format webp https://example.com/cat.png
//	imgsaveas prefs set --ext jfif
//
// See --help for all available options.
package main

// main is the entry point for imgsaveas.
func main() {
	Execute()
}
