package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

var ErrUnsupportedContentType = errors.New("unsupported content type")

var (
	photoExtensions = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	}
	videoExtensions = map[string]string{
		"video/mp4":       ".mp4",
		"video/quicktime": ".mov",
		"video/webm":      ".webm",
	}
)

// MemberPhotoKey returns a fresh object key for a member photo.
func MemberPhotoKey(memberID primitive.ObjectID, contentType string) (string, error) {
	return objectKey("members", memberID, photoExtensions, contentType)
}

// ExerciseVideoKey returns a fresh object key for an exercise demo video.
func ExerciseVideoKey(exerciseID primitive.ObjectID, contentType string) (string, error) {
	return objectKey("exercises", exerciseID, videoExtensions, contentType)
}

// IsMemberPhotoKey reports whether key was issued by MemberPhotoKey for memberID.
func IsMemberPhotoKey(memberID primitive.ObjectID, key string) bool {
	return strings.HasPrefix(key, "members/"+memberID.Hex()+"/")
}

// IsExerciseVideoKey reports whether key was issued by ExerciseVideoKey for exerciseID.
func IsExerciseVideoKey(exerciseID primitive.ObjectID, key string) bool {
	return strings.HasPrefix(key, "exercises/"+exerciseID.Hex()+"/")
}

func objectKey(prefix string, ownerID primitive.ObjectID, allowed map[string]string, contentType string) (string, error) {
	ext, ok := allowed[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return fmt.Sprintf("%s/%s/%s%s", prefix, ownerID.Hex(), uuid.NewString(), ext), nil
}
