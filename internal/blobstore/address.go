package blobstore

import (
	"encoding/base64"

	"golang.org/x/crypto/blake2b"

	"github.com/curepocket/pocketsync/models"
)

// ComputeID derives the content address of data: the urlsafe base64 encoding
// of its BLAKE2b-256 digest. The same derivation is used by the storage
// network, which lets Get verify downloaded bytes locally.
func ComputeID(data []byte) models.BlobID {
	sum := blake2b.Sum256(data)
	return models.BlobID(base64.RawURLEncoding.EncodeToString(sum[:]))
}
