// Package table holds the vocabulary data model: rows of word/translation
// pairs, ordered tables of rows, and named sets of tables as they are kept
// in the backup file.
package table
