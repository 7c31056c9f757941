// Package config provides configuration structures and utilities for imgsaveas.
// It defines where data and downloads go and how images are fetched.
// User preferences (quality, custom extension) are stored separately by the
// settings package.
package config
