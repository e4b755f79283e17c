package ingestion

import "errors"

// ErrMalformedRecord marks a raw record missing its type or symbol field.
// Malformed records are skipped and counted, never fatal to the batch.
var ErrMalformedRecord = errors.New("malformed record")
