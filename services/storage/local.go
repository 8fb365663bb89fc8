package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/tracing"
)

// LocalStorageService keeps poster assets in a content directory on
// disk, the default for single-node deployments.
type LocalStorageService struct {
	contentDir string
}

func NewLocalStorageService(contentDir string) (interfaces.StorageService, error) {
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create content directory")
	}
	return &LocalStorageService{
		contentDir: contentDir,
	}, nil
}

func (s *LocalStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "LocalStorageService.Upload")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (s *LocalStorageService) Download(ctx context.Context, key string) ([]byte, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "LocalStorageService.Download")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return data, nil
}

func (s *LocalStorageService) Delete(ctx context.Context, key string) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "LocalStorageService.Delete")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (s *LocalStorageService) Reference(key string) string {
	return s.path(key)
}

func (s *LocalStorageService) path(key string) string {
	return filepath.Join(s.contentDir, key)
}
