package controllers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/roll2bowl/partner-api/app/models"
	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/storage"
	"github.com/roll2bowl/partner-api/internal/pkg/usercontext"
)

// MaxUploadBytes bounds a single uploaded file.
const MaxUploadBytes = 10 * 1024 * 1024

var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

var storageClient *storage.Client

// SetStorageClient injects the object storage client, called once at
// startup. Upload endpoints return 503 while it is nil.
func SetStorageClient(client *storage.Client) {
	storageClient = client
}

// HandleUpload accepts a multipart file, stores it in the bucket and
// records it. Form fields entityType and entityName scope the file to
// what it belongs to (menu item, branch document).
func HandleUpload(c *fiber.Ctx) error {
	if storageClient == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_unavailable",
			"object storage is not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "a file field is required")
	}
	if fileHeader.Size > MaxUploadBytes {
		return badRequest(c, fmt.Sprintf("file exceeds the %d byte limit", MaxUploadBytes))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedUploadExts[ext] {
		return badRequest(c, "unsupported file type")
	}

	entityType := strings.TrimSpace(c.FormValue("entityType"))
	if entityType == "" {
		entityType = "misc"
	}
	entityName := strings.TrimSpace(c.FormValue("entityName"))

	src, err := fileHeader.Open()
	if err != nil {
		return internalError(c, "failed to read uploaded file")
	}
	defer src.Close()

	fileUUID := uuid.NewString()
	objectKey := fmt.Sprintf("%s/%s%s", entityType, fileUUID, ext)

	result, err := storageClient.Upload(c.Context(), objectKey, src, fileHeader.Size)
	if err != nil {
		return internalError(c, "failed to store file")
	}

	record := models.File{
		UUID:       fileUUID,
		EntityType: entityType,
		EntityName: entityName,
		FileName:   fileHeader.Filename,
		ObjectKey:  result.ObjectKey,
		MimeType:   result.ContentType,
		SizeBytes:  result.Size,
		UploadedBy: usercontext.GetUserID(c),
	}
	if err := repository.GetGlobalFactory().GetFileRepository().Create(&record); err != nil {
		return internalError(c, "failed to record uploaded file")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid": record.UUID,
		"url":  result.PublicURL,
		"size": record.SizeBytes,
	})
}

// HandleDownloadFile redirects to the public object URL for a stored
// file.
func HandleDownloadFile(c *fiber.Ctx) error {
	if storageClient == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_unavailable",
			"object storage is not configured")
	}

	fileUUID := strings.TrimSpace(c.Params("uuid"))
	if fileUUID == "" {
		return badRequest(c, "file id is required")
	}
	record, err := repository.GetGlobalFactory().GetFileRepository().GetByUUID(fileUUID)
	if err != nil {
		return notFound(c, "file not found")
	}
	return c.Redirect(storageClient.PublicURL(record.ObjectKey), fiber.StatusFound)
}

// HandleDeleteFile removes a stored object and its record. Only the
// uploader or an admin may delete.
func HandleDeleteFile(c *fiber.Ctx) error {
	if storageClient == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_unavailable",
			"object storage is not configured")
	}

	fileUUID := strings.TrimSpace(c.Params("uuid"))
	if fileUUID == "" {
		return badRequest(c, "file id is required")
	}
	record, err := repository.GetGlobalFactory().GetFileRepository().GetByUUID(fileUUID)
	if err != nil {
		return notFound(c, "file not found")
	}

	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsAdmin && record.UploadedBy != userCtx.UserID {
		return forbidden(c, "file does not belong to you")
	}

	if err := storageClient.Delete(c.Context(), record.ObjectKey); err != nil {
		return internalError(c, "failed to delete stored file")
	}
	if err := repository.GetGlobalFactory().GetFileRepository().Delete(record.ID); err != nil {
		return internalError(c, "failed to delete file record")
	}
	return c.JSON(fiber.Map{"message": "file deleted"})
}
