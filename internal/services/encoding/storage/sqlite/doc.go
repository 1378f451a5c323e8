// Package sqlite provides a SQLite-backed session store.
//
// A session row carries the participant and progress; trials, audio and
// results hang off it in child tables keyed by trial. Trials are written once
// so a restored session always shows the grid it showed before.
package sqlite
