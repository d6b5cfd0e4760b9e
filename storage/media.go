package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Blob storage for clips, thumbnails and avatars. Entities hold the public
// object URL as an opaque reference; everything here resolves keys back out
// of those references.

var mediaClient *minio.Client

var (
	mediaEndpoint string
	mediaBucket   string
	mediaSecure   bool
)

const UploadURLExpiry = 15 * time.Minute

func InitializeMedia() {
	mediaEndpoint = os.Getenv("MINIO_ENDPOINT")
	if mediaEndpoint == "" {
		mediaEndpoint = "localhost:9000"
		log.Println("MINIO_ENDPOINT not set, using localhost:9000 (development mode)")
	}
	mediaBucket = os.Getenv("MINIO_BUCKET")
	if mediaBucket == "" {
		mediaBucket = "clips"
	}
	mediaSecure = os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(mediaEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: mediaSecure,
	})
	if err != nil {
		log.Panic("error connecting to object storage: " + err.Error())
	}
	mediaClient = client

	ctx := context.Background()
	exists, err := mediaClient.BucketExists(ctx, mediaBucket)
	if err != nil {
		log.Panic("error checking media bucket: " + err.Error())
	}
	if !exists {
		if err := mediaClient.MakeBucket(ctx, mediaBucket, minio.MakeBucketOptions{}); err != nil {
			log.Panic("error creating media bucket: " + err.Error())
		}
		log.Printf("media bucket %q created", mediaBucket)
	}

	// Public read so stored object URLs are directly playable.
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, mediaBucket)
	if err := mediaClient.SetBucketPolicy(ctx, mediaBucket, policy); err != nil {
		log.Printf("warning: could not set public-read policy on %q: %v", mediaBucket, err)
	}

	log.Println("media storage initialized, bucket:", mediaBucket)
}

// CreateUploadURL returns a presigned PUT URL for the given object key.
func CreateUploadURL(ctx context.Context, objectKey string) (string, error) {
	u, err := mediaClient.PresignedPutObject(ctx, mediaBucket, objectKey, UploadURLExpiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// PutObject uploads data under objectKey and returns its public URL.
func PutObject(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	_, err := mediaClient.PutObject(ctx, mediaBucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return ObjectURL(objectKey), nil
}

// ObjectURL returns the durable public URL for an object key.
func ObjectURL(objectKey string) string {
	scheme := "http"
	if mediaSecure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, mediaEndpoint, mediaBucket, objectKey)
}

// ObjectKeyFromURL resolves a stored reference back to its object key.
// Returns "" for references this store did not issue (placeholders, legacy
// paths), which callers treat as nothing-to-delete.
func ObjectKeyFromURL(reference string) string {
	if mediaBucket == "" {
		return ""
	}
	marker := "/" + mediaBucket + "/"
	i := strings.Index(reference, marker)
	if i == -1 {
		return ""
	}
	return reference[i+len(marker):]
}

// DeleteObject removes the blob behind a stored reference. Best-effort by
// contract: callers log failures and continue.
func DeleteObject(ctx context.Context, reference string) error {
	if mediaClient == nil {
		return nil
	}
	key := ObjectKeyFromURL(reference)
	if key == "" {
		return nil
	}
	return mediaClient.RemoveObject(ctx, mediaBucket, key, minio.RemoveObjectOptions{})
}
