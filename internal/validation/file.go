package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const maxImageSize = 5 << 20 // 5MB

var (
	allowedImageMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	allowedImageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
)

// ValidateImageUpload checks size, sniffed content type and extension of an
// uploaded image. The content type comes from the file's magic numbers, not
// from the client-supplied header.
func ValidateImageUpload(header *multipart.FileHeader) error {
	if header.Size > maxImageSize {
		return fmt.Errorf("file too large: maximum size is %d MB", maxImageSize/(1<<20))
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType reads at most 512 bytes
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	detectedType := http.DetectContentType(buffer[:n])
	if !allowedImageMimeTypes[detectedType] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}
