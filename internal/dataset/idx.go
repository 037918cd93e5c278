package dataset

import (
	"encoding/binary"
	"errors"
	"io"
)

// IDX magic numbers.
const (
	ImageMagic = 2051 // 0x00000803
	LabelMagic = 2049 // 0x00000801
)

// imageHeader is the header of an IDX image file:
//
//	magic number: 4 bytes (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes, row-major, one image after another
type imageHeader struct {
	Magic int32
	Count int32
	Rows  int32
	Cols  int32
}

// labelHeader is the header of an IDX label file:
//
//	magic number: 4 bytes (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
type labelHeader struct {
	Magic int32
	Count int32
}

func readImageHeader(r io.Reader, source string) (imageHeader, error) {
	var h imageHeader
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return h, readErr(source, err, "image header")
	}
	if h.Magic != ImageMagic {
		return h, formatErr(source, ErrInvalidMagic, "got %d, want %d", h.Magic, ImageMagic)
	}
	if h.Count < 0 || h.Rows < 1 || h.Cols < 1 {
		return h, formatErr(source, ErrInvalidHeader, "count=%d rows=%d cols=%d", h.Count, h.Rows, h.Cols)
	}
	return h, nil
}

func readLabelHeader(r io.Reader, source string) (labelHeader, error) {
	var h labelHeader
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return h, readErr(source, err, "label header")
	}
	if h.Magic != LabelMagic {
		return h, formatErr(source, ErrInvalidMagic, "got %d, want %d", h.Magic, LabelMagic)
	}
	if h.Count < 0 {
		return h, formatErr(source, ErrInvalidHeader, "count=%d", h.Count)
	}
	return h, nil
}

// readImages reads count images of size bytes each.
func readImages(r io.Reader, source string, count, size int) ([][]byte, error) {
	images := make([][]byte, count)
	for i := range images {
		images[i] = make([]byte, size)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, readErr(source, err, "image %d", i)
		}
	}
	return images, nil
}

// readLabels reads count labels.
func readLabels(r io.Reader, source string, count int) ([]byte, error) {
	labels := make([]byte, count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, readErr(source, err, "labels")
	}
	return labels, nil
}

// readErr maps a short read to ErrTruncated and passes other I/O errors through.
func readErr(source string, err error, format string, args ...any) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return formatErr(source, ErrTruncated, format, args...)
	}
	return err
}
