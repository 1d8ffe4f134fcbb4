package handler

import (
	"context"
	"database/sql"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/autostrada/auction-api/internal/model"
	"github.com/autostrada/auction-api/internal/repository"
	"github.com/autostrada/auction-api/internal/utils"
)

// maxImageBytes caps a single uploaded photo at 8 MiB.
const maxImageBytes = 8 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ImageHandler manages the photo gallery of a seller's auction.  Files
// are stored on disk under the configured upload directory with
// generated names; the database keeps only metadata.
type ImageHandler struct {
	Auctions  *repository.AuctionRepo
	Images    *repository.ImageRepo
	UploadDir string
}

func NewImageHandler(a *repository.AuctionRepo, i *repository.ImageRepo, uploadDir string) *ImageHandler {
	return &ImageHandler{Auctions: a, Images: i, UploadDir: uploadDir}
}

// ownedEditable loads the auction and verifies the caller owns it and it
// has not gone live.  Images are frozen once bidding starts so that
// every bidder saw the same listing.
func (h *ImageHandler) ownedEditable(ctx context.Context, c echo.Context, auctionID uint64) (int, string) {
	sellerID, err := getUserID(c)
	if err != nil {
		return http.StatusUnauthorized, "unauthorized"
	}
	a, err := h.Auctions.GetByID(ctx, auctionID)
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return http.StatusNotFound, "auction not found"
		}
		return http.StatusInternalServerError, "query failed"
	}
	if a.SellerID == nil || *a.SellerID != sellerID {
		return http.StatusForbidden, "not your auction"
	}
	if a.Status != model.StatusPendingApproval && a.Status != model.StatusScheduled {
		return http.StatusConflict, "gallery is frozen once the auction goes live"
	}
	return 0, ""
}

func (h *ImageHandler) saveOne(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unsupported image type")
	}
	if fh.Size > maxImageBytes {
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image exceeds size limit")
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(src, maxImageBytes+1)); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Upload accepts one or more photos in the multipart field "images" (a
// single "image" field works too) and appends them to the gallery.
func (h *ImageHandler) Upload(c echo.Context) error {
	auctionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if code, msg := h.ownedEditable(ctx, c, auctionID); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart form required"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["image"]
	}
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no image files in request"})
	}

	saved := make([]imageResp, 0, len(files))
	for _, fh := range files {
		name, err := h.saveOne(fh)
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				return c.JSON(he.Code, echo.Map{"error": he.Message})
			}
			utils.Error("image save failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		id, err := h.Images.Insert(ctx, auctionID, name)
		if err != nil {
			_ = os.Remove(filepath.Join(h.UploadDir, name))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		saved = append(saved, imageResp{ID: id, FileName: name})
	}
	return c.JSON(http.StatusCreated, echo.Map{"images": saved})
}

// Delete removes one photo from the gallery and unlinks its file.
func (h *ImageHandler) Delete(c echo.Context) error {
	auctionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	imageID, err := pathID(c, "imageID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if code, msg := h.ownedEditable(ctx, c, auctionID); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	fileName, err := h.Images.Delete(ctx, auctionID, imageID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete image failed"})
	}
	if err := os.Remove(filepath.Join(h.UploadDir, fileName)); err != nil && !os.IsNotExist(err) {
		utils.Warn("image row deleted but file unlink failed", map[string]any{"file": fileName})
	}
	return c.NoContent(http.StatusNoContent)
}
