// Package settings persists the user preferences record shared by the
// preferences form and the conversion pipeline.
//
// The record has two keys, quality and customExtension, stored as JSON
// values in a flat key-value area. Reads merge stored keys over caller
// supplied defaults; writes merge shallowly. There is no versioning and the
// last write wins.
package settings
