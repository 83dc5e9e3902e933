// Package anki exports vocabulary tables for import into Anki, either as a
// plain CSV file or as a .apkg package holding a ready made deck with a
// forward and a reverse card per word.
package anki
