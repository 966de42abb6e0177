package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/types"
	log "github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ObjectPutter is the part of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService stores recipe images and avatars in S3
type ImageService struct {
	client  ObjectPutter
	bucket  string
	urlFor  func(key string) string
	breaker *gobreaker.CircuitBreaker[*s3.PutObjectOutput]
}

// NewImageService creates an ImageService backed by the configured bucket.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return NewImageServiceWithClient(s3Config.Client, s3Config.BucketName, s3Config.ObjectURL)
}

// NewImageServiceWithClient wires an ImageService to any ObjectPutter.
func NewImageServiceWithClient(client ObjectPutter, bucket string, urlFor func(key string) string) *ImageService {
	settings := gobreaker.Settings{
		Name:        "s3-put-object",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("image storage circuit breaker changed state")
		},
	}
	return &ImageService{
		client:  client,
		bucket:  bucket,
		urlFor:  urlFor,
		breaker: gobreaker.NewCircuitBreaker[*s3.PutObjectOutput](settings),
	}
}

// Upload stores an image for userID and returns its public URL. The content
// type is sniffed from the data, not taken from the client.
func (s *ImageService) Upload(ctx context.Context, userID uuid.UUID, data []byte) (*types.ImageUploadResponse, error) {
	if len(data) == 0 {
		return nil, validationFailed("image is empty", map[string]string{"image": "is required"})
	}
	if len(data) > MaxImageSize {
		return nil, validationFailed("image too large", map[string]string{"image": fmt.Sprintf("must be at most %d bytes", MaxImageSize)})
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, validationFailed("unsupported image type", map[string]string{"image": "must be a jpeg, png, webp or gif image"})
	}

	key := fmt.Sprintf("images/%s/%s.%s", userID, uuid.New(), ext)
	_, err := s.breaker.Execute(func() (*s3.PutObjectOutput, error) {
		return s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &Error{Kind: KindServerError, Message: "image storage temporarily unavailable", Err: err}
		}
		log.WithFields(log.Fields{"user_id": userID, "key": key, "error": err}).Error("failed to upload image")
		return nil, &Error{Kind: KindServerError, Message: "failed to upload image", Err: err}
	}

	url := s.urlFor(key)
	log.WithFields(log.Fields{"user_id": userID, "key": key}).Info("image uploaded")
	return &types.ImageUploadResponse{URL: url, Key: key}, nil
}
