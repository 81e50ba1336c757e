package data

import "errors"

// Raw madlibs columns.
const (
	RawLabelColumn = "Label"
	RawTextColumn  = "Text"
	RawLabelBad    = "BAD"
	RawLabelNotBad = "NOT_BAD"
)

// Canonical columns produced by PostprocessMadlibs.
const (
	LabelColumn = "label"
	TextColumn  = "text"
)

var (
	ErrMissingColumn  = errors.New("missing column")
	ErrInvalidValue   = errors.New("invalid value")
	ErrLengthMismatch = errors.New("column length does not match table")
)
