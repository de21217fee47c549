package archiver

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const FileExt = ".json.gz"

var ErrFileAlreadyExists = errors.New("file already exists")

// ObjectStore is the subset of the S3 client the archiver uses.
type ObjectStore interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archiver struct {
	S3Client ObjectStore
	S3Bucket string

	// S3Prefix is for the files in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "v1/" or simply "" (empty string)
	S3Prefix string

	RealmName string
}

func (a *Archiver) Key(name string) string {
	return a.S3Prefix + a.RealmName + "/" + name + FileExt
}

// Archive uploads v as gzipped JSON under name. Archives are write-once: an existing object with
// the same key yields ErrFileAlreadyExists.
func (a *Archiver) Archive(ctx context.Context, name string, v interface{}) (string, error) {
	key := a.Key(name)
	logger := log.With().
		Str("module", "archiver").
		Str("realm", a.RealmName).
		Str("key", key).
		Logger()

	if err := a.assertS3FileNonExistence(ctx, key); err != nil {
		return "", err
	}
	logger.Trace().Msg("asserted S3 file non-existence")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		return "", errors.Wrap(err, "failed to encode archive")
	}
	if err := gz.Close(); err != nil {
		return "", errors.Wrap(err, "failed to compress archive")
	}

	_, err := a.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(a.S3Bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to invoke PutObject")
	}
	logger.Info().Int("size", buf.Len()).Msg("uploaded archive to S3")

	return key, nil
}

func (a *Archiver) assertS3FileNonExistence(ctx context.Context, key string) error {
	object, err := a.S3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			if ae.ErrorCode() == "NotFound" {
				return nil
			}
		}
		return errors.Wrap(err, "failed to invoke HeadObject")
	}
	return errors.Wrap(ErrFileAlreadyExists, fmt.Sprintf("file \"%s\" already exists in s3 with LastModified \"%s\"", key, object.LastModified))
}
