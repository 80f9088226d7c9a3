// Package journal persists the stream of submitted operations to SQLite
// so a collaboration session can be re-fed through a fresh engine later
// (loom replay). It records submissions, not document state - the engine
// itself stays purely in-memory.
package journal
