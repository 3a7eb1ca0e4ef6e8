package storage

import (
	"context"
	"io"
	"strconv"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores archived documents in an object store.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

const ContentTypeJSON = "application/json"

// ActArchiveKey is the object key of the signed copy of an act.
func ActArchiveKey(matchID int, actID string) string {
	return "acts/" + strconv.Itoa(matchID) + "/" + actID + ".json"
}
