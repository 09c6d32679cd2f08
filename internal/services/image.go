package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"love-manager-backend/internal/config"
	"love-manager-backend/internal/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// objectStore is the subset of *s3.Client the image service uses
type objectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// UploadResult is the hosted image location
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ImageService hosts avatar and memory images in an S3 bucket. The image
// bytes are stored as received.
type ImageService struct {
	s3Client objectStore
	bucket   string
	folder   string
	baseURL  string
}

// NewImageService creates an S3 client from cfg
func NewImageService(ctx context.Context, cfg config.AWSConfig) (*ImageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newImageService(client, cfg), nil
}

func newImageService(client objectStore, cfg config.AWSConfig) *ImageService {
	return &ImageService{
		s3Client: client,
		bucket:   cfg.S3Bucket,
		folder:   strings.Trim(cfg.Folder, "/"),
		baseURL:  publicBaseURL(cfg),
	}
}

// Upload stores a data URL or raw base64 image and returns its public URL
func (s *ImageService) Upload(ctx context.Context, image string) (*UploadResult, error) {
	data, contentType, ext, err := decodeImage(image)
	if err != nil {
		return nil, err
	}

	// Key: {folder}/{uuid}.{ext}
	key := fmt.Sprintf("%s/%s.%s", s.folder, uuid.NewString(), ext)

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, errs.Transport("failed to upload image", err)
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("Image uploaded")
	return &UploadResult{URL: s.baseURL + "/" + key, PublicID: key}, nil
}

// Delete removes a previously uploaded image. Only keys inside the image
// folder are accepted.
func (s *ImageService) Delete(ctx context.Context, publicID string) error {
	publicID = strings.TrimPrefix(publicID, "/")
	if !strings.HasPrefix(publicID, s.folder+"/") || strings.Contains(publicID, "..") {
		return errs.Validation("public_id", "is not an uploaded image")
	}

	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return errs.Transport("failed to delete image", err)
	}

	log.Info().Str("key", publicID).Msg("Image deleted")
	return nil
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/heic": "heic",
}

// decodeImage accepts "data:<mime>;base64,<payload>" or bare base64
func decodeImage(image string) (data []byte, contentType, ext string, err error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, "", "", errs.Validation("image", "is required")
	}

	contentType, ext = "image/jpeg", "jpg"
	encoded := image
	if strings.HasPrefix(image, "data:") {
		header, payload, ok := strings.Cut(strings.TrimPrefix(image, "data:"), ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", "", errs.Validation("image", "must be a base64 data URL")
		}
		mime := strings.ToLower(strings.TrimSuffix(header, ";base64"))
		if e, known := imageExtensions[mime]; known {
			contentType, ext = mime, e
		}
		encoded = payload
	}

	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", "", errs.Validation("image", "is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", "", errs.Validation("image", "is empty")
	}
	return data, contentType, ext, nil
}

func publicBaseURL(cfg config.AWSConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.Region)
	}
}
