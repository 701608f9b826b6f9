// Package journal persists published change sets to SQLite for later
// inspection. It is a downstream consumer wired in as a plain engine
// subscriber; the engine itself never touches disk.
package journal
