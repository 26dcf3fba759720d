package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/task-manager/internal/api/httpx"
	"github.com/baharkarakas/task-manager/internal/models"
	"github.com/baharkarakas/task-manager/internal/services"
)

// multipart framing allowance on top of the file itself
const avatarFormSlack = 64 << 10

type UserHandler struct {
	users *services.UserService
	log   *slog.Logger
}

func NewUserHandler(users *services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type sessionResp struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	u, tok, err := h.users.Register(r.Context(), in)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sessionResp{User: u, Token: tok})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	u, tok, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResp{User: u, Token: tok})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	uc := caller(r)
	if err := h.users.Logout(r.Context(), uc.User.ID, uc.Token); err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"success": "logout successful"})
}

func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	if err := h.users.LogoutAll(r.Context(), caller(r).User.ID); err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteStatus(w, http.StatusOK)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, caller(r).User)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	up, err := services.ParseUserUpdate(body)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	u, err := h.users.Update(r.Context(), caller(r).User, up)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Delete(r.Context(), caller(r).User)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// UploadAvatar expects a multipart form with the image in the "avatar" field.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > services.MaxAvatarBytes+avatarFormSlack {
		writeErr(h.log, w, r, services.ErrAvatarTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxAvatarBytes+avatarFormSlack)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			err = services.ErrAvatarTooLarge
		} else {
			err = services.ErrAvatarType
		}
		writeErr(h.log, w, r, err)
		return
	}
	defer file.Close()

	if err := h.users.SetAvatar(r.Context(), caller(r).User.ID, header.Filename, header.Size, file); err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteStatus(w, http.StatusOK)
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAvatar(r.Context(), caller(r).User.ID); err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteStatus(w, http.StatusOK)
}

// Avatar serves a user's stored avatar without authentication.
func (h *UserHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	img, err := h.users.Avatar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
