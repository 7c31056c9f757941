// Package database provides SQLite-based storage for imgsaveas.
//
// This package implements the DB, which stores:
//   - A flat key-value settings area holding the user preferences
//   - The history of downloads written by the local download manager
//
// The database is a single file opened through modernc.org/sqlite in WAL
// mode, so the preferences form can read while a conversion records its
// download.
package database
