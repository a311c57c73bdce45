package archive

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/airshift-io/airshift/pkg/log"
	"github.com/airshift-io/airshift/pkg/options"
)

type s3Uploader struct {
	client     *minio.Client
	bucketName string
}

// NewS3Uploader creates an Uploader backed by an S3-compatible endpoint.
func NewS3Uploader(opts *options.S3Options) (Uploader, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &s3Uploader{
		client:     client,
		bucketName: opts.BucketName,
	}, nil
}

func (u *s3Uploader) ensureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Backup bucket does not exist, creating...", "bucket", u.bucketName)
		if err := u.client.MakeBucket(ctx, u.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (u *s3Uploader) Upload(ctx context.Context, localPath, objectKey string) error {
	if err := u.ensureBucket(ctx); err != nil {
		return err
	}

	info, err := u.client.FPutObject(ctx, u.bucketName, objectKey, localPath, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup object: %w", err)
	}

	log.Info("Uploaded legacy store backup", "bucket", u.bucketName, "key", objectKey, "size", info.Size)
	return nil
}
