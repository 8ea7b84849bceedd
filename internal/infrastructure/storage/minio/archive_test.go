package minio

import (
	"context"
	"io"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/pkg/errors"
)

type fakeObjectAPI struct {
	buckets map[string]bool
	objects map[string][]byte
	putErr  error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (f *fakeObjectAPI) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, bucket string, _ miniogo.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, bucket, object string, reader io.Reader, _ int64, _ miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	if f.putErr != nil {
		return miniogo.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}
	f.objects[bucket+"/"+object] = data
	return miniogo.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(data))}, nil
}

func (f *fakeObjectAPI) GetObject(context.Context, string, string, miniogo.GetObjectOptions) (*miniogo.Object, error) {
	return nil, assert.AnError
}

func TestEnsureBucketCreatesOnce(t *testing.T) {
	api := newFakeObjectAPI()
	a := newArchiveWithClient(api, "lexml-contracts", logging.NewNopLogger())

	require.NoError(t, a.ensureBucket(context.Background()))
	assert.True(t, api.buckets["lexml-contracts"])

	// Second call sees the existing bucket.
	require.NoError(t, a.ensureBucket(context.Background()))
}

func TestStoreContract(t *testing.T) {
	api := newFakeObjectAPI()
	a := newArchiveWithClient(api, "b", logging.NewNopLogger())

	require.NoError(t, a.StoreContract(context.Background(), "id-7", "the parties shall agree"))
	assert.Equal(t, []byte("the parties shall agree"), api.objects["b/contracts/id-7.txt"])
}

func TestStoreContractFailureIsCoded(t *testing.T) {
	api := newFakeObjectAPI()
	api.putErr = assert.AnError
	a := newArchiveWithClient(api, "b", logging.NewNopLogger())

	err := a.StoreContract(context.Background(), "id-7", "text")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeArchiveWriteFailed))
}
