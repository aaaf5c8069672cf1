package domain

import "errors"

var (
	// ErrRetrievalUnavailable means the profile store could not be reached
	// (connectivity or timeout). It is always surfaced to the caller — a
	// zero result must mean "validly computed zero", never "failed to
	// compute".
	ErrRetrievalUnavailable = errors.New("profile retrieval unavailable")

	// ErrLexiconUnavailable means the extractor's rule tables failed to
	// initialise. Query handling degrades to an unfiltered corpus count.
	ErrLexiconUnavailable = errors.New("query lexicon unavailable")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
