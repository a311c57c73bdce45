// Package archive backs up the legacy config store to object storage
// before it is purged, so a bad migration can be inspected after the fact.
package archive

import (
	"context"
	"fmt"
	"path"
	"time"
)

// Uploader is the archive sink.
type Uploader interface {
	// Upload stores the file at localPath under objectKey.
	Upload(ctx context.Context, localPath, objectKey string) error
}

// ObjectKey names a backup object: {device}/{timestamp}-{basename}.
func ObjectKey(deviceID, localPath string, now time.Time) string {
	return fmt.Sprintf("%s/%s-%s", deviceID, now.UTC().Format("20060102T150405Z"), path.Base(localPath))
}
