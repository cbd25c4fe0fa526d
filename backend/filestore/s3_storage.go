package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3ClientAPI is the slice of the S3 client this store uses, kept narrow so
// tests can fake it.
type S3ClientAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage keeps blobs in an S3 bucket.
type S3Storage struct {
	Client S3ClientAPI
	Bucket string
}

func NewS3Storage(ctx context.Context, bucket string) (*S3Storage, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
	}, nil
}

// Save spools the content to a temp file first: S3 wants a seekable body
// with a known length, and we need the sha256 before the upload starts.
func (s *S3Storage) Save(ctx context.Context, r io.Reader) (string, string, int64, error) {
	tmp, err := os.CreateTemp("", "filebox-s3-*")
	if err != nil {
		return "", "", 0, err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	hasher := sha256.New()
	size, err := io.Copy(tmp, io.TeeReader(r, hasher))
	if err != nil {
		return "", "", 0, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", "", 0, err
	}

	key := uuid.New().String()
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          tmp,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", "", 0, err
	}
	return key, hex.EncodeToString(hasher.Sum(nil)), size, nil
}

func (s *S3Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return resp.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	return err
}
