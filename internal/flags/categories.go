// Package flags holds the urfave/cli scaffolding shared by cmd/marfd:
// flag categories, NewApp, and the ExpandHome path helper, following
// the go-ethereum-family convention of a small internal/flags package
// rather than repeating this setup per command.
package flags

const (
	StorageCategory  = "STORAGE"
	DispatchCategory = "EVENT DISPATCH"
	LoggingCategory  = "LOGGING"
	AdminCategory    = "ADMIN API"
)
