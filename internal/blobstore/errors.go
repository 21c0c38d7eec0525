package blobstore

import "errors"

var (
	// ErrBlobNotFound indicates the store cannot resolve a content address.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrIntegrityMismatch indicates downloaded bytes do not hash to the
	// requested content address.
	ErrIntegrityMismatch = errors.New("blob content does not match address")

	// ErrStoreUnavailable indicates the publisher or aggregator kept failing
	// after all retry attempts.
	ErrStoreUnavailable = errors.New("blob store unavailable")
)
