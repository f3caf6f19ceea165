package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/forkful/backend/config"
)

// ImageService stores recipe images posted as base64 data URIs. When an
// S3 bucket is configured the decoded bytes go there; otherwise they land
// in a local media directory served by the router.
type ImageService struct {
	s3Config *config.S3Config
	mediaDir string
}

func NewImageService(s3Config *config.S3Config, mediaDir string) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		mediaDir: mediaDir,
	}
}

// Store decodes a "data:image/<type>;base64,<payload>" string and writes
// it to the configured backend, returning the public URL.
func (s *ImageService) Store(ctx context.Context, dataURI string) (string, error) {
	data, ext, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)

	if s.s3Config != nil {
		url, err := s.uploadToS3(ctx, data, fileName, ext)
		if err == nil {
			return url, nil
		}
		log.Printf("[ImageService] S3 upload failed, falling back to local storage: %v", err)
	}

	return s.storeLocal(data, fileName)
}

func (s *ImageService) uploadToS3(ctx context.Context, data []byte, fileName, ext string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Uploaded image to S3: %s", publicURL)
	return publicURL, nil
}

func (s *ImageService) storeLocal(data []byte, fileName string) (string, error) {
	path := filepath.Join(s.mediaDir, filepath.FromSlash(fileName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return "/media/" + fileName, nil
}

func decodeDataURI(dataURI string) ([]byte, string, error) {
	const prefix = "data:image/"
	if !strings.HasPrefix(dataURI, prefix) {
		return nil, "", &FieldError{Field: "image", Message: "expected a base64 image data URI"}
	}

	rest := strings.TrimPrefix(dataURI, prefix)
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, "", &FieldError{Field: "image", Message: "expected a base64 image data URI"}
	}

	ext := rest[:sep]
	payload := rest[sep+len(";base64,"):]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", &FieldError{Field: "image", Message: "invalid base64 payload"}
	}
	if len(data) == 0 {
		return nil, "", &FieldError{Field: "image", Message: "empty image"}
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	return data, ext, nil
}
