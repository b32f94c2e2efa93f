// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media hands out upload URLs for article cover images.

The browser uploads the file straight to S3-compatible object storage with a
presigned PUT URL, then stores the returned public URL in the article's imageUrl.
The panel never proxies image bytes.
*/
package media

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/validate"
	"github.com/TheClumsyRaccoon/safecampus-panel/pkg/uuid"
)

// UploadTTL is how long a presigned upload URL stays valid.
const UploadTTL = 15 * time.Minute

// FieldContentType names the requested MIME type in payloads.
const FieldContentType = "content_type"

// MessageUploadsDisabled is returned when no bucket is configured.
const MessageUploadsDisabled = "Cover uploads are not configured"

// coverExtensions lists the accepted cover types and the extension stored with each.
var coverExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// # Presigning

// Presigner signs a PUT request for one object.
type Presigner interface {
	PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error)
}

// S3Options configures the S3 client.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Presigner implements [Presigner] with the AWS SDK.
type S3Presigner struct {
	client *s3.PresignClient
}

// NewS3Presigner builds a presign client. A custom endpoint switches the client to
// path-style addressing for S3-compatible stores.
func NewS3Presigner(ctx context.Context, options S3Options) (*S3Presigner, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(options.Region)}
	if options.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("media_s3_config_failed: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Presigner{client: s3.NewPresignClient(client)}, nil
}

// PresignPut returns a URL accepting one PUT of key with the given content type.
func (presigner *S3Presigner) PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error) {
	request, err := presigner.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return request.URL, nil
}

// # Service

// Upload describes one granted cover upload.
type Upload struct {
	UploadURL   string    `json:"upload_url"`
	ObjectURL   string    `json:"object_url"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service grants cover uploads. A Service without a presigner, a bucket or an absolute
// public base URL reports uploads as unavailable.
type Service struct {
	presigner     Presigner
	bucket        string
	publicBaseURL string
}

// NewService constructs a media [Service]. presigner may be nil when uploads are disabled.
func NewService(presigner Presigner, bucket, publicBaseURL string) *Service {
	return &Service{presigner: presigner, bucket: bucket, publicBaseURL: publicBaseURL}
}

/*
CreateCoverUpload signs an upload URL for a new cover owned by authorID.

Returns:
  - *Upload: The PUT URL and the public URL to store on the article
  - error: ServiceUnavailable when disabled, Validation for unsupported types
*/
func (service *Service) CreateCoverUpload(ctx context.Context, authorID, contentType string) (*Upload, error) {
	if service.presigner == nil || service.bucket == "" || !isAbsolute(service.publicBaseURL) {
		return nil, apperr.ServiceUnavailable(MessageUploadsDisabled)
	}

	extension, ok := coverExtensions[contentType]
	validator := &validate.Validator{}
	validator.Custom(FieldContentType, !ok, "Must be one of: image/jpeg, image/png, image/webp, image/gif")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("covers/%s/%s.%s", authorID, uuid.New(), extension)

	uploadURL, err := service.presigner.PresignPut(ctx, service.bucket, key, contentType, UploadTTL)
	if err != nil {
		return nil, apperr.DataAccess("Unable to prepare the upload, please retry", err)
	}

	objectURL, err := url.JoinPath(service.publicBaseURL, key)
	if err != nil {
		return nil, fmt.Errorf("media_object_url_failed: %w", err)
	}

	return &Upload{
		UploadURL:   uploadURL,
		ObjectURL:   objectURL,
		Key:         key,
		ContentType: contentType,
		ExpiresAt:   time.Now().UTC().Add(UploadTTL),
	}, nil
}

// isAbsolute reports whether raw can prefix the stored image URL of an article.
func isAbsolute(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
