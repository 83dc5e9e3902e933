// Package backup stores named vocabulary tables in a JSON file with a one
// generation old secondary copy. Reads validate everything and fall back to
// the secondary when the primary is missing or damaged; writes rotate the
// primary into the secondary and then replace the primary atomically.
package backup
