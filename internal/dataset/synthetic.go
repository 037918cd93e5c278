package dataset

// Synthetic builds a deterministic dataset of n rows×cols images spread
// over classes labels, for running the pipeline without MNIST files.
//
// Sample i has label i % classes. Its image is a bright horizontal band
// whose vertical position depends on the label, shifted by one column on
// every other repetition so that samples of a class are not all identical.
// This is NOT realistic MNIST data.
func Synthetic(n, rows, cols, classes int) *Dataset {
	if n < 0 || rows < 1 || cols < 1 || classes < 1 || classes > 256 {
		panic("Synthetic: invalid dimensions")
	}

	band := max(rows/classes, 1)
	margin := cols / 5

	d := &Dataset{
		Images: make([][]byte, n),
		Labels: make([]byte, n),
		Rows:   rows,
		Cols:   cols,
	}
	for i := range n {
		label := i % classes
		shift := (i / classes) % 2

		img := make([]byte, rows*cols)
		start := (label * rows / classes) % rows
		for r := start; r < start+band && r < rows; r++ {
			for c := margin + shift; c < cols-margin && c < cols; c++ {
				img[r*cols+c] = 255
			}
		}

		d.Images[i] = img
		d.Labels[i] = byte(label)
	}
	return d
}
