package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/services"
)

// UserHandler, panel kullanıcılarının yönetimi (yetkilendirme sayfası).
type UserHandler struct {
	userService services.UserService
	maxUpload   int64
}

// NewUserHandler, constructor. maxUpload avatar yüklemesinin byte sınırıdır.
func NewUserHandler(userService services.UserService, maxUpload int64) *UserHandler {
	return &UserHandler{userService: userService, maxUpload: maxUpload}
}

// List godoc
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, users)
}

// Create godoc
// POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, user)
}

// Update godoc
// PATCH, PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), actor, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, user)
}

// Delete godoc
// DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, message("user deleted"))
}

// UploadAvatar godoc
// POST /api/users/{id}/avatar
// Content-Type: multipart/form-data, "file" alanı.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	file, header, ok := formFile(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer file.Close()

	user, err := h.userService.UpdateAvatar(r.Context(), actor, r.PathValue("id"), file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, user)
}
