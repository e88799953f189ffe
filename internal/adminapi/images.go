package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/productdesk/internal/webserver"
	"go.uber.org/zap"
)

func registerImageRoutes() {
	webserver.ApiPOST("/images", uploadImage)
}

// uploadImage encodes the multipart "file" field into an inline JPEG
// that can be sent back as a product image.
func uploadImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Please upload an image", err.Error())
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read upload", err.Error())
	}
	defer src.Close()

	img, err := GetEncoder(c).Encode(src)
	if err != nil {
		zap.L().Warn("adminapi: image decode failed", zap.String("filename", fh.Filename), zap.Error(err))
		return failErr(c, err, nil)
	}
	return ok(c, img)
}
