package analyses

import "errors"

var (
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrEmptyDocument indicates no text could be extracted from the upload.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrNoQuestions indicates neither segmentation stage found questions.
	ErrNoQuestions = errors.New("no questions found in document")

	// ErrNoProvider indicates the requested provider has no configured client.
	ErrNoProvider = errors.New("requested provider is not configured")

	// ErrNoCurriculum indicates the requested curriculum is not registered.
	ErrNoCurriculum = errors.New("requested curriculum is not registered")
)
