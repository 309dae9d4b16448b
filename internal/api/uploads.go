/**
 * @description
 * Multipart upload handling. Uploaded files are validated by extension,
 * renamed to a random name, and stored under a per-category directory below
 * the configured upload root.
 */

package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/helpinghands/crowdfund/internal/app"
)

// Upload categories map to subdirectories of the upload root.
const (
	uploadCategoryKYC       = "kyc"
	uploadCategoryCampaigns = "campaigns"
	uploadCategoryNews      = "news"
	uploadCategoryProfiles  = "profiles"
)

var allowedUploadExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// saveUpload stores the named form file and returns its relative path.
// Returns "" without error when the field is absent.
func (h *Handlers) saveUpload(r *http.Request, field, category string) (string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return "", &app.ValidationError{Fields: map[string]string{field: "upload is missing or too large"}}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", &app.ValidationError{Fields: map[string]string{field: "upload could not be read"}}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		return "", &app.ValidationError{Fields: map[string]string{field: "file type is not allowed"}}
	}

	return h.writeUpload(file, category, ext)
}

func (h *Handlers) writeUpload(file multipart.File, category, ext string) (string, error) {
	dir := filepath.Join(h.uploadDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	name := uuid.New().String() + ext
	fullPath := filepath.Join(dir, name)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return filepath.ToSlash(filepath.Join(category, name)), nil
}
