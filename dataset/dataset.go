// Package dataset provides MNIST dataset loading for densenet.
//
// This package wraps the internal IDX reader and exports a clean public API
// for loading labeled image sets, raw or gzip-compressed.
//
// Example usage:
//
//	import "github.com/born-ml/densenet/dataset"
//
//	train, err := dataset.LoadDir("./data", true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d images of %dx%d\n", train.Len(), train.Rows, train.Cols)
package dataset

import (
	"io"

	"github.com/born-ml/densenet/internal/dataset"
)

// Dataset holds labeled images as raw bytes.
type Dataset = dataset.Dataset

// FormatError reports a malformed dataset file.
type FormatError = dataset.FormatError

// Standard MNIST file names.
const (
	TrainImages = dataset.TrainImages
	TrainLabels = dataset.TrainLabels
	TestImages  = dataset.TestImages
	TestLabels  = dataset.TestLabels
)

// Format errors, wrapped by FormatError.
var (
	ErrInvalidMagic  = dataset.ErrInvalidMagic
	ErrCountMismatch = dataset.ErrCountMismatch
	ErrTruncated     = dataset.ErrTruncated
	ErrInvalidHeader = dataset.ErrInvalidHeader
)

// Decode reads an IDX image stream and an IDX label stream.
func Decode(images, labels io.Reader) (*Dataset, error) {
	return dataset.Decode(images, labels)
}

// Load reads an image file and a label file, raw or ".gz".
func Load(imagePath, labelPath string) (*Dataset, error) {
	return dataset.Load(imagePath, labelPath)
}

// LoadDir loads the standard MNIST training or test pair from dir.
func LoadDir(dir string, train bool) (*Dataset, error) {
	return dataset.LoadDir(dir, train)
}

// Synthetic builds a deterministic pattern dataset for tests and demos.
func Synthetic(n, rows, cols, classes int) *Dataset {
	return dataset.Synthetic(n, rows, cols, classes)
}
