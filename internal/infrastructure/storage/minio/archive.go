// Package minio archives analyzed contract texts in S3-compatible object
// storage, keyed by analysis ID.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/smartlex/lexml/internal/config"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/pkg/errors"
)

// objectAPI is the subset of the MinIO client the archive uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// Archive stores one object per analysis under contracts/<analysis-id>.txt.
type Archive struct {
	client objectAPI
	bucket string
	log    logging.Logger
}

// NewArchive connects to the object store and ensures the bucket exists.
func NewArchive(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to create object-storage client")
	}

	a := &Archive{client: client, bucket: cfg.Bucket, log: log.Named("archive")}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func newArchiveWithClient(client objectAPI, bucket string, log logging.Logger) *Archive {
	return &Archive{client: client, bucket: bucket, log: log}
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to check archive bucket")
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create archive bucket")
	}
	a.log.Info("archive bucket created", logging.String("bucket", a.bucket))
	return nil
}

func objectName(analysisID string) string {
	return fmt.Sprintf("contracts/%s.txt", analysisID)
}

// StoreContract archives the raw contract text for one analysis.
func (a *Archive) StoreContract(ctx context.Context, analysisID, text string) error {
	reader := bytes.NewReader([]byte(text))
	_, err := a.client.PutObject(ctx, a.bucket, objectName(analysisID), reader, int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveWriteFailed, "failed to archive contract text")
	}
	return nil
}

// FetchContract retrieves the archived text for one analysis.
func (a *Archive) FetchContract(ctx context.Context, analysisID string) (string, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, objectName(analysisID), minio.GetObjectOptions{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExternalService, "failed to read archived contract")
	}
	defer obj.Close()

	var sb strings.Builder
	if _, err := io.Copy(&sb, obj); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExternalService, "failed to read archived contract")
	}
	return sb.String(), nil
}
