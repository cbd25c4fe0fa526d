package filestore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
)

// fakeS3Client implements S3ClientAPI against an in-memory map.
type fakeS3Client struct {
	objects map[string][]byte
}

func (m *fakeS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(params.Body); err != nil {
		return nil, err
	}
	m.objects[*params.Key] = buf.Bytes()
	return &s3.PutObjectOutput{}, nil
}

func (m *fakeS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	content, ok := m.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(content)),
	}, nil
}

func (m *fakeS3Client) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageRoundTrip(t *testing.T) {
	client := &fakeS3Client{objects: make(map[string][]byte)}
	store := &S3Storage{Client: client, Bucket: "test-bucket"}
	ctx := context.Background()

	content := "s3 bytes"
	key, hash, size, err := store.Save(ctx, strings.NewReader(content))
	assert.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.NotEmpty(t, hash)
	assert.Equal(t, content, string(client.objects[key]))

	rc, err := store.Open(ctx, key)
	assert.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, content, string(got))

	assert.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}
