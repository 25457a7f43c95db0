// Package filesystem stores datasets and documents as plain directories.
//
// Layout below the storage root:
//
//	<dataset>/<content-id>/
//	    <original file>   raw PDF or text bytes
//	    info.yml          metadata record
//	    label.typ         label document (optional)
//	    label.json        structured export (optional)
//	    label.bib         bibliography (optional)
//	    rebut.typ         rebuttal draft (optional)
//
// There is no locking. Directory creation and exclusive file creation are
// the only guards against overwriting.
package filesystem
