// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"encoding/base64"

	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/pixeltailor/pixeltailor/internal/validate"
	"github.com/wb-go/wbf/ginext"
)

type PhotoHandler struct {
	service PhotoService
}

type PhotoService interface {
	CreateUser(ctx context.Context, username, password, bucketFolder string) (int64, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	Upload(ctx context.Context, ownerID int64, filename string, data []byte) (*model.Photo, error)
	Download(ctx context.Context, ownerID, photoID int64) ([]byte, string, error)
	Delete(ctx context.Context, ownerID, photoID int64) error
	Transform(ctx context.Context, ownerID, photoID int64, op *model.TransformOp) ([]byte, string, error)
	ListPhotos(ctx context.Context, ownerID int64) ([]model.Photo, error)
	LabelsForUser(ctx context.Context, ownerID int64) ([]string, error)
	PhotosByLabel(ctx context.Context, ownerID int64, label string) ([]model.PhotoSummary, error)
}

func NewPhotoHandler(svc PhotoService) *PhotoHandler {
	return &PhotoHandler{
		service: svc,
	}
}

func (h PhotoHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

type addUserRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	BucketFolder string `json:"bucketfolder"`
}

func (h PhotoHandler) AddUser(ctx *ginext.Context) {
	var req addUserRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "malformed request body"})
		return
	}

	id, err := h.service.CreateUser(ctx.Request.Context(), req.Username, req.Password, req.BucketFolder)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, map[string]any{"message": "User added successfully.", "userId": id})
}

func (h PhotoHandler) ListUsers(ctx *ginext.Context) {
	users, err := h.service.ListUsers(ctx.Request.Context())
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, users)
}

type uploadRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

func (h PhotoHandler) Upload(ctx *ginext.Context) {
	ownerID, err := validate.ParseID(ctx.Param("userid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	var req uploadRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "malformed request body"})
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "data must be base64-encoded"})
		return
	}

	photo, err := h.service.Upload(ctx.Request.Context(), ownerID, req.Filename, raw)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, map[string]any{"message": "Photo uploaded successfully.", "photoid": photo.PhotoID})
}

func (h PhotoHandler) ListPhotos(ctx *ginext.Context) {
	ownerID, err := validate.ParseID(ctx.Param("userid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	photos, err := h.service.ListPhotos(ctx.Request.Context(), ownerID)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, photos)
}

func (h PhotoHandler) Download(ctx *ginext.Context) {
	ownerID, err := validate.ParseID(ctx.Param("userid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}
	photoID, err := validate.ParseID(ctx.Param("photoid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	data, filename, err := h.service.Download(ctx.Request.Context(), ownerID, photoID)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, map[string]string{
		"message":      "File successfully retrieved",
		"filename":     filename,
		"encoded_file": base64.StdEncoding.EncodeToString(data),
	})
}

type transformRequest struct {
	Parameters validate.Params `json:"parameters"`
}

func (h PhotoHandler) Transform(ctx *ginext.Context) {
	ownerID, err := validate.ParseID(ctx.Param("userid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}
	photoID, err := validate.ParseID(ctx.Param("photoid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	var req transformRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "malformed request body"})
		return
	}

	// parameters are rejected here, before the blob is ever read
	op, err := validate.Operation(ctx.Param("operation"), req.Parameters)
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	data, filename, err := h.service.Transform(ctx.Request.Context(), ownerID, photoID, op)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, map[string]string{
		"message":         "Image processed successfully",
		"filename":        filename,
		"encoded_preview": base64.StdEncoding.EncodeToString(data),
	})
}

type deleteRequest struct {
	PhotoID string `json:"photoid"`
}

func (h PhotoHandler) Delete(ctx *ginext.Context) {
	ownerID, err := validate.ParseID(ctx.Param("userid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	var req deleteRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(400, map[string]string{"error": "malformed request body"})
		return
	}

	photoID, err := validate.ParseID(req.PhotoID)
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	if err := h.service.Delete(ctx.Request.Context(), ownerID, photoID); err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, map[string]string{"message": "Photo deleted successfully."})
}

func (h PhotoHandler) Labels(ctx *ginext.Context) {
	ownerID, err := validate.ParseID(ctx.Param("userid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	labels, err := h.service.LabelsForUser(ctx.Request.Context(), ownerID)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, labels)
}

func (h PhotoHandler) PhotosByLabel(ctx *ginext.Context) {
	ownerID, err := validate.ParseID(ctx.Param("userid"))
	if err != nil {
		ctx.JSON(400, map[string]string{"error": err.Error()})
		return
	}

	photos, err := h.service.PhotosByLabel(ctx.Request.Context(), ownerID, ctx.Param("label"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, photos)
}
