package dataset

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/petar/GoMNIST"
)

// Standard MNIST file names.
const (
	TrainImages = "train-images-idx3-ubyte"
	TrainLabels = "train-labels-idx1-ubyte"
	TestImages  = "t10k-images-idx3-ubyte"
	TestLabels  = "t10k-labels-idx1-ubyte"
)

// Dataset holds labeled images as raw bytes.
//
// Images[i] is a row-major Rows×Cols image with pixel intensities 0-255 and
// Labels[i] is its class. The two slices are index-aligned and never
// modified by the packages that consume them.
type Dataset struct {
	Images [][]byte
	Labels []byte
	Rows   int
	Cols   int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Sample returns image i and its label.
func (d *Dataset) Sample(i int) ([]byte, byte) {
	return d.Images[i], d.Labels[i]
}

// ImageSize returns the number of pixels per image.
func (d *Dataset) ImageSize() int {
	return d.Rows * d.Cols
}

// Limit returns a view of the first n samples (all of them if n <= 0 or
// n >= Len). The view shares storage with d.
func (d *Dataset) Limit(n int) *Dataset {
	if n <= 0 || n >= d.Len() {
		return d
	}
	return &Dataset{Images: d.Images[:n], Labels: d.Labels[:n], Rows: d.Rows, Cols: d.Cols}
}

// Split splits the dataset into two views, the second holding
// validationRatio of the samples (e.g. 0.2 for 20%).
func (d *Dataset) Split(validationRatio float64) (*Dataset, *Dataset) {
	n := d.Len()
	splitIdx := int(float64(n) * (1.0 - validationRatio))
	splitIdx = min(max(splitIdx, 0), n)

	return &Dataset{Images: d.Images[:splitIdx], Labels: d.Labels[:splitIdx], Rows: d.Rows, Cols: d.Cols},
		&Dataset{Images: d.Images[splitIdx:], Labels: d.Labels[splitIdx:], Rows: d.Rows, Cols: d.Cols}
}

// Decode reads an IDX image stream and an IDX label stream.
//
// Both headers are validated before any pixel data is read: a wrong magic
// number or differing counts fail with a *FormatError and no data is
// returned.
func Decode(images, labels io.Reader) (*Dataset, error) {
	return decode(images, "images", labels, "labels")
}

func decode(images io.Reader, imageSource string, labels io.Reader, labelSource string) (*Dataset, error) {
	ih, err := readImageHeader(images, imageSource)
	if err != nil {
		return nil, err
	}
	lh, err := readLabelHeader(labels, labelSource)
	if err != nil {
		return nil, err
	}
	if ih.Count != lh.Count {
		return nil, formatErr(imageSource, ErrCountMismatch, "%d images, %d labels in %s", ih.Count, lh.Count, labelSource)
	}

	rows, cols := int(ih.Rows), int(ih.Cols)
	imgs, err := readImages(images, imageSource, int(ih.Count), rows*cols)
	if err != nil {
		return nil, err
	}
	lbls, err := readLabels(labels, labelSource, int(lh.Count))
	if err != nil {
		return nil, err
	}

	return &Dataset{Images: imgs, Labels: lbls, Rows: rows, Cols: cols}, nil
}

// Load reads an image file and a label file.
//
// Uncompressed files are read as raw IDX. When both paths end in ".gz" the
// pair is read through GoMNIST, which handles the gzip framing.
func Load(imagePath, labelPath string) (*Dataset, error) {
	if isGzip(imagePath) && isGzip(labelPath) {
		return loadGzip(imagePath, labelPath)
	}

	imageFile, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open images: %w", err)
	}
	defer imageFile.Close()

	labelFile, err := os.Open(labelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer labelFile.Close()

	return decode(bufio.NewReader(imageFile), imagePath, bufio.NewReader(labelFile), labelPath)
}

func loadGzip(imagePath, labelPath string) (*Dataset, error) {
	// GoMNIST trusts the header dimensions, so validate both headers first.
	ih, err := readGzipHeader(imagePath, readImageHeader)
	if err != nil {
		return nil, err
	}
	lh, err := readGzipHeader(labelPath, readLabelHeader)
	if err != nil {
		return nil, err
	}
	if ih.Count != lh.Count {
		return nil, formatErr(imagePath, ErrCountMismatch, "%d images, %d labels in %s", ih.Count, lh.Count, labelPath)
	}

	set, err := GoMNIST.ReadSet(imagePath, labelPath)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrInvalid):
		return nil, formatErr(imagePath, ErrInvalidMagic, "%v (labels %s)", err, labelPath)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, formatErr(imagePath, ErrTruncated, "%v (labels %s)", err, labelPath)
	default:
		return nil, fmt.Errorf("failed to read gzip dataset %s: %w", imagePath, err)
	}
	if len(set.Images) != len(set.Labels) {
		return nil, formatErr(imagePath, ErrCountMismatch, "%d images, %d labels in %s",
			len(set.Images), len(set.Labels), labelPath)
	}

	d := &Dataset{
		Images: make([][]byte, len(set.Images)),
		Labels: make([]byte, len(set.Labels)),
		Rows:   set.NRow,
		Cols:   set.NCol,
	}
	for i, img := range set.Images {
		d.Images[i] = []byte(img)
		d.Labels[i] = byte(set.Labels[i])
	}
	return d, nil
}

// readGzipHeader decompresses the start of path and decodes its header
// with read.
func readGzipHeader[H any](path string, read func(io.Reader, string) (H, error)) (H, error) {
	var h H
	f, err := os.Open(path)
	if err != nil {
		return h, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return h, formatErr(path, ErrTruncated, "gzip header")
		}
		return h, fmt.Errorf("failed to read gzip %s: %w", path, err)
	}
	defer zr.Close()

	return read(zr, path)
}

// LoadDir loads the standard MNIST training (train=true) or test pair from
// dir. Uncompressed files are preferred; the ".gz" variants are used when
// the uncompressed ones are missing.
//
// Expected files in dir:
//   - train-images-idx3-ubyte, train-labels-idx1-ubyte (or t10k-* for test)
//   - or the same names with a .gz suffix
func LoadDir(dir string, train bool) (*Dataset, error) {
	imageFile, labelFile := TestImages, TestLabels
	if train {
		imageFile, labelFile = TrainImages, TrainLabels
	}

	imagePath := filepath.Join(dir, imageFile)
	labelPath := filepath.Join(dir, labelFile)
	if !exists(imagePath) && exists(imagePath+".gz") {
		imagePath += ".gz"
		labelPath += ".gz"
	}
	return Load(imagePath, labelPath)
}

func isGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
