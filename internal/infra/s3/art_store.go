package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"nursing-album-service/internal/domain"
)

// Config points at an S3-compatible bucket.
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// CDNURL is the public URL prefix, defaults to endpoint/bucket.
	CDNURL string
}

// ArtStore uploads generated sticker art and hands back its public URL.
type ArtStore struct {
	client *s3.Client
	bucket string
	cdnURL string
}

func NewArtStore(cfg Config) *ArtStore {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: true,
	})

	cdnURL := cfg.CDNURL
	if cdnURL == "" {
		cdnURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
	}
	return &ArtStore{client: client, bucket: cfg.Bucket, cdnURL: strings.TrimSuffix(cdnURL, "/")}
}

// UploadArt stores a base64 data URI under stickers/<uuid>.<ext>.
func (s *ArtStore) UploadArt(ctx context.Context, dataURI string) (string, error) {
	contentType, payload, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("stickers/%s%s", uuid.NewString(), extensionFor(contentType))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload art: %w", err)
	}
	return s.cdnURL + "/" + key, nil
}

func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data uri", domain.ErrInvalidInput)
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("%w: data uri must be base64 encoded", domain.ErrInvalidInput)
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if !isValidImageType(contentType) {
		return "", nil, fmt.Errorf("%w: invalid image type %q", domain.ErrInvalidInput, contentType)
	}
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: decode image: %v", domain.ErrInvalidInput, err)
	}
	return contentType, payload, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func isValidImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
