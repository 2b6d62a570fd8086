// Package cli implements the interactive terminal client. It is the
// presentation layer: it subscribes to the entry collection stream, renders
// snapshots, and calls the aggregate writer for every mutation. No
// consistency logic lives here.
package cli
