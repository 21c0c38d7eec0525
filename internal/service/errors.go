// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package service

import (
	"fmt"

	"github.com/curepocket/pocketsync/models"
)

// ErrorKind classifies why a sync operation failed.
type ErrorKind string

const (
	// KindConfiguration marks missing or unusable client configuration,
	// including an unreachable entry registry.
	KindConfiguration ErrorKind = "configuration"

	// KindValidation marks a record payload that failed schema validation
	// before encryption. Nothing was uploaded.
	KindValidation ErrorKind = "validation"

	// KindRegistryUnavailable marks a failed entry registry read (e.g. an
	// RPC timeout). Transient, unlike KindConfiguration: retrying the
	// operation may succeed.
	KindRegistryUnavailable ErrorKind = "registry-unavailable"

	// KindCapability marks a failure to obtain or renew the decryption
	// capability (wallet missing, signature rejected).
	KindCapability ErrorKind = "capability"

	// KindProofConstruction marks a failure to build the access-policy
	// proof bytes.
	KindProofConstruction ErrorKind = "proof-construction"

	// KindBlobNotFound marks a blob the store could not return. On the
	// read path this is fatal only for the metadata blob.
	KindBlobNotFound ErrorKind = "blob-not-found"

	// KindDecryption marks a decryption refusal or envelope failure.
	KindDecryption ErrorKind = "decryption"

	// KindPartialUpload marks a write aborted because at least one data
	// blob failed to encrypt or upload. The metadata blob was never
	// written, so on-chain state still points at the previous consistent
	// chain; already-uploaded blobs are unreferenced garbage.
	KindPartialUpload ErrorKind = "partial-upload"
)

// Kind sentinels for errors.Is matching. Each carries only its kind, so
// errors.Is(err, ErrPartialUpload) matches any *Error of that kind.
var (
	ErrConfiguration       = &Error{Kind: KindConfiguration}
	ErrValidation          = &Error{Kind: KindValidation}
	ErrRegistryUnavailable = &Error{Kind: KindRegistryUnavailable}
	ErrCapability          = &Error{Kind: KindCapability}
	ErrProofConstruction   = &Error{Kind: KindProofConstruction}
	ErrBlobNotFound        = &Error{Kind: KindBlobNotFound}
	ErrDecryption          = &Error{Kind: KindDecryption}
	ErrPartialUpload       = &Error{Kind: KindPartialUpload}
)

// Error is the failure type returned by sync operations. DataType names the
// data type the operation was working on; ID, when set, names the object the
// failure is about (a blob address or policy id).
type Error struct {
	Kind     ErrorKind
	DataType models.DataType
	ID       string
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.DataType != "" {
		msg += " (" + string(e.DataType) + ")"
	}
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so the exported sentinels work with
// errors.Is regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func syncErr(kind ErrorKind, dataType models.DataType, id string, err error) *Error {
	return &Error{Kind: kind, DataType: dataType, ID: id, Err: err}
}

func errf(kind ErrorKind, dataType models.DataType, format string, args ...any) *Error {
	return &Error{Kind: kind, DataType: dataType, Err: fmt.Errorf(format, args...)}
}
