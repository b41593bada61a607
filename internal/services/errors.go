package services

import "errors"

// Report service errors
var (
	ErrNoInput           = errors.New("no input reader")
	ErrNoOutput          = errors.New("no output writer")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrNoJobs            = errors.New("no files to process")
	ErrOutputIsInput     = errors.New("output path equals input path")
)
