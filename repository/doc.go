// Package repository runs the persistence operations of mapped entities,
// each statement in its own transaction on a caller-owned Bun handle.
package repository
