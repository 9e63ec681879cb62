package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"Yatube/api/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// maxUploadRequestBytes bounds a whole form carrying one image upload.
const maxUploadRequestBytes = storage.MaxUploadBytes + 1<<20

// saveUpload stores the image submitted in field, if any. A rejected file
// yields a message for the form; err is reserved for storage faults.
func (server *Server) saveUpload(c *gin.Context, field, prefix string, size storage.Size) (key, msg string, err error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", "", nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "", "The image is too large", nil
	}
	if err != nil {
		return "", "Upload a valid image", nil
	}
	if header.Size > storage.MaxUploadBytes {
		return "", "The image is too large", nil
	}
	if server.Storage == nil {
		return "", "", errors.New("no storage configured for uploads")
	}

	file, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	key, err = storage.SaveImage(c.Request.Context(), server.Storage, prefix, file, size)
	if errors.Is(err, storage.ErrNotImage) {
		return "", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.", nil
	}
	if err != nil {
		return "", "", err
	}
	return key, "", nil
}

func (server *Server) deleteUpload(ctx context.Context, key string) {
	if server.Storage == nil {
		return
	}
	if err := server.Storage.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("could not delete stored image")
	}
}
