package nn

import "errors"

// Common errors.
var (
	ErrUnknownActivation = errors.New("unknown activation")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrInvalidBatchSize  = errors.New("batch size must be positive")
	ErrEmptyDataset      = errors.New("dataset is empty")
	ErrLabelOutOfRange   = errors.New("label out of range")
	ErrInputSize         = errors.New("sample size does not match network inputs")
)
