package ranking

import "errors"

var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrNoFiles             = errors.New("no files uploaded")
	ErrNoValidFiles        = errors.New("no valid files")
	ErrBatchExceedsQuota   = errors.New("batch exceeds remaining quota")
	ErrUnparsable          = errors.New("no JSON object in model output")
	ErrNotFound            = errors.New("not found")
)
