// Package batch parses vocabulary typed or pasted as text: cells of the
// form "word|translation" separated by commas and newlines.
package batch
