// Package html provides a Normaliser for web pages.
// It drops scripts, styles, navigation, footers and the document head,
// keeps the visible text one text node per line, and escapes the result
// for typst markup.
package html
