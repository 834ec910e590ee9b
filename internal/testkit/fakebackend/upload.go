package fakebackend

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"authsession/internal/auth/models"
	apierrors "authsession/pkg/api-errors"
	"authsession/pkg/platform/httputil"
	"authsession/pkg/platform/middleware/auth"
)

const avatarBaseURL = "https://cdn.example.test/avatars/"

// handleAvatarUpload stores the multipart field "file" as the caller's avatar.
// An existing avatar is kept unless replaceExisting is true.
func (b *Backend) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := b.enter(ctx, "uploadAvatar"); err != nil {
		var ge *gqlError
		if errors.As(err, &ge) {
			httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{Code: ge.Code, Message: ge.Message})
			return
		}
		httputil.WriteError(w, apierrors.Wrap(err, httputil.CodeUnavailable, err.Error()))
		return
	}

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, apierrors.New(httputil.CodePayloadTooLarge, "The image is too large"))
			return
		}
		httputil.WriteError(w, apierrors.New(apierrors.CodeBadUserInput, "Malformed multipart body"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, apierrors.New(apierrors.CodeBadUserInput, "The file field is required"))
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil || len(content) == 0 {
		httputil.WriteError(w, apierrors.New(apierrors.CodeBadUserInput, "The uploaded file is empty"))
		return
	}
	contentType := http.DetectContentType(content)
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/gif" && contentType != "image/webp" {
		httputil.WriteError(w, apierrors.New(httputil.CodeUnsupportedMediaType, "Only images can be uploaded"))
		return
	}
	replace, _ := strconv.ParseBool(r.FormValue("replaceExisting"))

	claims, _ := auth.ClaimsFrom(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[claims.UserID]
	if !ok {
		httputil.WriteError(w, apierrors.New(apierrors.CodeUnauthenticated, "Authentication required"))
		return
	}
	if a.Avatar != nil && !replace {
		httputil.WriteError(w, apierrors.New(httputil.CodeAvatarExists, "An avatar already exists. Upload again with replaceExisting"))
		return
	}
	id := uuid.NewString()
	a.Avatar = &models.Avatar{ID: id, URL: avatarBaseURL + id}
	b.logger.DebugContext(ctx, "avatar stored", "user_id", a.ID, "file_name", header.Filename, "bytes", len(content))
	httputil.WriteJSON(w, http.StatusOK, models.AvatarUpload{AvatarURL: a.Avatar.URL})
}
