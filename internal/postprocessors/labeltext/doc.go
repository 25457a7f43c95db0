// Package labeltext provides the processors that prepare extracted page
// text for annotation in a label document.
//
// Processors work line by line on typst markup:
//
//   - ligatures: expand typographic ligatures to plain letters
//   - mentions: comment out lines containing "@"
//   - sentences: force a blank line after sentence-final punctuation
//   - blanklines: collapse runs of blank lines
//   - autolabel: wrap every paragraph in a numbered citation marker
package labeltext
