package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"

	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/tracing"
)

// ObjectStorageService keeps poster assets in an S3-compatible bucket
// for deployments where the content directory is not shared.
type ObjectStorageService struct {
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
	session    *session.Session
	bucket     string
}

func NewObjectStorageService(storageConfig *config.StorageConfig) (interfaces.StorageService, error) {
	awsCfg := &aws.Config{
		Region:      aws.String(storageConfig.Region),
		Credentials: credentials.NewStaticCredentials(storageConfig.AccessKeyID, storageConfig.AccessKeySecret, ""),
	}
	// Custom endpoint enables R2 and other S3-compatible stores
	if storageConfig.Endpoint != "" {
		awsCfg.Endpoint = aws.String(storageConfig.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	s, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	return &ObjectStorageService{
		uploader:   s3manager.NewUploader(s),
		downloader: s3manager.NewDownloader(s),
		session:    s,
		bucket:     storageConfig.Bucket,
	}, nil
}

func (s *ObjectStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Upload")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		tracing.TraceErr(span, err)
	}
	return err
}

func (s *ObjectStorageService) Download(ctx context.Context, key string) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Download")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	buffer := &aws.WriteAtBuffer{}
	_, err := s.downloader.Download(buffer,
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return buffer.Bytes(), nil
}

func (s *ObjectStorageService) Delete(ctx context.Context, key string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Delete")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	svc := s3.New(s.session)
	_, err := svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		tracing.TraceErr(span, err)
	}
	return err
}

func (s *ObjectStorageService) Reference(key string) string {
	return s.bucket + "/" + key
}
