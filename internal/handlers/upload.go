package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Uploader forwards an image blob to the external host and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

type UploadHandler struct {
	Uploader Uploader
}

func (h *UploadHandler) Upload(c echo.Context) error {
	if h.Uploader == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": 0, "message": "upload not configured"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": 0, "message": "no file uploaded"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": 0, "message": "something went wrong"})
	}
	defer src.Close()

	url, err := h.Uploader.Upload(c.Request().Context(), src)
	if err != nil {
		c.Logger().Errorf("upload error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": 0,
			"message": "image upload failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": 1, "image_url": url})
}
