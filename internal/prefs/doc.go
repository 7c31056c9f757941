// Package prefs implements the preferences form: two text fields bound to
// the settings store.
//
// Input is never rejected. On submit the quality is parsed and clamped to
// [0.1, 1.0] (anything unparseable becomes 0.92) and the extension is reduced
// to [a-z0-9_-]. A localized confirmation is shown and cleared again after
// StatusDelay.
package prefs
