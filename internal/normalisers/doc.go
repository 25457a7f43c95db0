// Package normalisers provides implementations of the Normaliser interface.
// A normaliser turns fetched markup into plain text that can be stored
// as a document and rendered into a label document.
package normalisers
