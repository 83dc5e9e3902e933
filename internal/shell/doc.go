// Package shell is the interactive menu front-end: entering tables,
// drilling them in shuffled order and managing the saved tables. All
// persistence goes through a Store, and every change is a full load,
// modify and save cycle so the backup file stays the single source of
// truth.
package shell
