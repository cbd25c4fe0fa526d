package handler

import (
	"github.com/zaunist/filebox/backend/filestore"
)

// blobStore is the process-wide blob backend, set once at startup.
var blobStore filestore.Storage

// SetBlobStore wires the blob backend into the handlers.
func SetBlobStore(s filestore.Storage) {
	blobStore = s
}
