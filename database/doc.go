// Package database provides connection bootstrap, configuration types,
// driver error classification, statement hooks and logging for the mapper,
// built on top of Bun.
package database
