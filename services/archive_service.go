package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/freshai/freshai-backend/config"
)

// ArchiveInterface defines the interface for keeping copies of analyzed images
type ArchiveInterface interface {
	// StoreImage stores image content and returns the storage key
	StoreImage(filename string, content []byte) (string, error)
	// GetPresignedURL generates a temporary URL for a stored image
	GetPresignedURL(key string) (string, error)
	// DeleteImage removes a stored image
	DeleteImage(key string) error
}

// S3Archive implements ArchiveInterface on top of an S3 bucket
type S3Archive struct {
	client *s3.Client
	bucket string
}

var archiveInstance ArchiveInterface

// InitArchive initializes the S3-backed archive with AWS credentials
func InitArchive() (ArchiveInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)

	archiveInstance = &S3Archive{
		client: client,
		bucket: cfg.AWSS3Bucket,
	}

	return archiveInstance, nil
}

// GetArchive returns the initialized archive instance, nil when archival
// is not configured
func GetArchive() ArchiveInterface {
	return archiveInstance
}

// SetArchive sets the archive instance (primarily for testing)
func SetArchive(a ArchiveInterface) {
	archiveInstance = a
}

// StoreImage uploads image content under an analyses/ key and returns the key
func (a *S3Archive) StoreImage(filename string, content []byte) (string, error) {
	// Format: analyses/{timestamp}_{filename}
	key := fmt.Sprintf("analyses/%d_%s", time.Now().Unix(), filename)

	_, err := a.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// presignedURLTTL is how long an archive download link stays valid
const presignedURLTTL = 15 * time.Minute

// GetPresignedURL generates a short-lived download URL for an archived image
func (a *S3Archive) GetPresignedURL(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("archive key is required")
	}

	presigner := s3.NewPresignClient(a.client)
	request, err := presigner.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignedURLTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign archive download for %s: %w", key, err)
	}

	return request.URL, nil
}

// DeleteImage removes an archived image from the bucket
func (a *S3Archive) DeleteImage(key string) error {
	if key == "" {
		return fmt.Errorf("archive key is required")
	}

	_, err := a.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete archived image %s: %w", key, err)
	}

	return nil
}
