// Package processor runs the non-interactive neoanki commands against the
// backup store: listing, showing, importing, renaming, deleting, exporting
// to Anki and filling translations. It also starts the interactive shell.
// Every mutation loads the current set, changes it and saves it back.
package processor
