package imagestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/shop-admin/internal/config"
)

const keyPrefix = "products/"

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader кладёт картинки в бакет S3.
type S3Uploader struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	newKey  func(filename string) string
}

// NewS3 создаёт клиента S3 по статическим ключам из конфига.
// BaseEndpoint позволяет работать с MinIO и другими совместимыми хранилищами.
func NewS3(ctx context.Context, cfg config.Upload) (*S3Uploader, error) {
	const op = "imagestore.NewS3"
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("%s: bucket is not set", op)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client putObjectAPI, cfg config.Upload) *S3Uploader {
	baseURL := strings.TrimRight(cfg.S3PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	return &S3Uploader{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: baseURL,
		newKey: func(filename string) string {
			return keyPrefix + uuid.NewString() + "-" + filename
		},
	}
}

// Upload выгружает картинку с ключом products/<uuid>-<имя файла>.
func (u *S3Uploader) Upload(ctx context.Context, img Image) (string, error) {
	const op = "imagestore.S3Upload"
	key := u.newKey(img.Filename)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          img.reader(),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(img.Size()),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return u.baseURL + "/" + key, nil
}
