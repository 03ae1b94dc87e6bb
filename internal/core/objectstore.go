package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig locates an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Validate reports missing required settings.
func (c ObjectStoreConfig) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("object store endpoint is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("object store bucket is required"))
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		errs = append(errs, fmt.Errorf("object store credentials: %w", ErrMissingToken))
	}
	return errors.Join(errs...)
}

// objectAPI is the subset of *minio.Client used by ObjectStorePublisher.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectStorePublisher uploads reports to assessments/<project>/<timestamp>.json.
type ObjectStorePublisher struct {
	client  objectAPI
	bucket  string
	region  string
	project string
	now     func() time.Time
}

// NewObjectStorePublisher connects to the bucket described by cfg.
// Reports are stored under the given project name.
func NewObjectStorePublisher(cfg ObjectStoreConfig, project string) (*ObjectStorePublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &PublishError{Target: "s3", Err: err}
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newObjectStoreTransport(),
	})
	if err != nil {
		return nil, &PublishError{Target: "s3", Err: err}
	}
	return newObjectStorePublisher(client, cfg.Bucket, cfg.Region, project), nil
}

func newObjectStorePublisher(client objectAPI, bucket, region, project string) *ObjectStorePublisher {
	if project == "" {
		project = "unnamed"
	}
	return &ObjectStorePublisher{client: client, bucket: bucket, region: region, project: project, now: time.Now}
}

// Name identifies the collector in messages.
func (p *ObjectStorePublisher) Name() string {
	return "s3://" + p.bucket
}

// ObjectKey returns the key a report published at t is stored under.
func (p *ObjectStorePublisher) ObjectKey(t time.Time) string {
	return fmt.Sprintf("assessments/%s/%s.json", p.project, t.UTC().Format("20060102T150405Z"))
}

// Publish uploads doc, creating the bucket when it does not exist yet.
func (p *ObjectStorePublisher) Publish(ctx context.Context, doc []byte) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return &PublishError{Target: p.Name(), Err: fmt.Errorf("bucket exists: %w", err)}
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
			return &PublishError{Target: p.Name(), Err: fmt.Errorf("make bucket: %w", err)}
		}
	}

	key := p.ObjectKey(p.now())
	_, err = p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(doc), int64(len(doc)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return &PublishError{Target: p.Name(), Err: fmt.Errorf("put %s: %w", key, err)}
	}
	return nil
}

func newObjectStoreTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
