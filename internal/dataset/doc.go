// Package dataset loads labeled image datasets in the IDX format used by
// MNIST.
//
// An IDX pair is an image file (magic 2051, count, rows, cols, pixels) and
// a label file (magic 2049, count, labels), with big-endian 32-bit header
// fields. Malformed input fails with a *FormatError wrapping one of
// ErrInvalidMagic, ErrCountMismatch, ErrTruncated or ErrInvalidHeader; no
// partial dataset is ever returned.
//
// Example:
//
//	train, err := dataset.LoadDir("./data", true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	image, label := train.Sample(0)
package dataset
