package service

import (
	"bunker/gym-admin/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"
)

// UploadTicket tells the client where to PUT a file and which key to confirm afterwards.
type UploadTicket struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"uploadUrl"`
	ContentType string    `json:"contentType"` // Must be sent as the Content-Type header
	ExpiresAt   time.Time `json:"expiresAt"`
}

func issueUpload(ctx context.Context, files storage.FileStorage, expiry time.Duration, key func() (string, error), contentType string) (*UploadTicket, error) {
	objectKey, err := key()
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidContent, contentType)
		}
		return nil, err
	}
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}

	url, err := files.GeneratePresignedUploadURL(ctx, objectKey, contentType, expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &UploadTicket{
		Key:         objectKey,
		UploadURL:   url,
		ContentType: contentType,
		ExpiresAt:   time.Now().UTC().Add(expiry),
	}, nil
}
