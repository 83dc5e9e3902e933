// Package drill holds the state of a practice round over one table and the
// text views the shell prints for it: the numbered list with progressively
// revealed translations, the full translation listing and the backup
// overview.
package drill
