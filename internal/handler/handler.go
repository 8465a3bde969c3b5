package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoArmGo/VidShare/internal/domain"
	"github.com/GoArmGo/VidShare/internal/usecase"
)

// Handler — обработчик HTTP-запросов сервиса.
type Handler struct {
	authUseCase    usecase.AuthUseCase
	uploadUseCase  usecase.UploadUseCase
	catalogUseCase usecase.CatalogUseCase
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(
	auth usecase.AuthUseCase,
	upload usecase.UploadUseCase,
	catalog usecase.CatalogUseCase,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authUseCase:    auth,
		uploadUseCase:  upload,
		catalogUseCase: catalog,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithDomainError переводит доменную ошибку в HTTP-статус.
// Неопознанные ошибки (включая StorageError) логируются и уходят наружу
// как общий 500 без внутренних подробностей.
func (h *Handler) respondWithDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.ConflictError
	var mediaErr *domain.UnsupportedMediaError

	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error(), h.logger)
	case errors.As(err, &conflictErr):
		respondWithError(w, http.StatusConflict, conflictErr.Error(), h.logger)
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error(), h.logger)
	case errors.As(err, &mediaErr):
		code := http.StatusUnsupportedMediaType
		if mediaErr.Kind == domain.MediaKindTooLarge {
			code = http.StatusRequestEntityTooLarge
		}
		respondWithError(w, code, mediaErr.Error(), h.logger)
	default:
		h.logger.Error("unexpected error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера", h.logger)
	}
}

// setSessionCookie привязывает токен сессии к клиенту.
// Время жизни cookie совпадает с абсолютным истечением сессии.
func setSessionCookie(w http.ResponseWriter, sess *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie немедленно гасит cookie сессии.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register — регистрирует нового пользователя и сразу выдает сессию.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "некорректная форма", h.logger)
		return
	}

	sess, err := h.authUseCase.Register(r.Context(),
		strings.TrimSpace(r.PostFormValue("username")),
		strings.TrimSpace(r.PostFormValue("email")),
		r.PostFormValue("password"),
	)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	setSessionCookie(w, sess)
	respondWithJSON(w, http.StatusCreated, sess.User, h.logger)
}

// Login — проверяет учетные данные и выдает сессию.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "некорректная форма", h.logger)
		return
	}

	sess, err := h.authUseCase.Login(r.Context(),
		strings.TrimSpace(r.PostFormValue("email")),
		r.PostFormValue("password"),
	)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	setSessionCookie(w, sess)
	respondWithJSON(w, http.StatusOK, sess.User, h.logger)
}

// Logout — уничтожает сессию и гасит cookie. Идемпотентен.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.authUseCase.Logout(r.Context(), token); err != nil {
		h.logger.Error("logout failed", "error", err)
	}

	clearSessionCookie(w)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "выход выполнен"}, h.logger)
}

// Profile — возвращает пользователя текущей сессии. Закрыт AuthGuard'ом.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "требуется вход", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// Upload — принимает multipart-форму с видео и опциональной миниатюрой.
// Закрыт AuthGuard'ом.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "требуется вход", h.logger)
		return
	}

	// Потолок на тело запроса: два файла плюс запас на поля формы
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "запрос превышает допустимый размер", h.logger)
			return
		}
		respondWithError(w, http.StatusBadRequest, "некорректная multipart-форма", h.logger)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var parts []usecase.FilePart

	videoFile, videoHeader, err := r.FormFile("video")
	switch {
	case err == nil:
		defer videoFile.Close()
		parts = append(parts, filePart(usecase.RoleVideo, videoFile, videoHeader))
	case errors.Is(err, http.ErrMissingFile):
		// отсутствие видео отклонит валидация пайплайна
	default:
		respondWithError(w, http.StatusBadRequest, "некорректное поле video", h.logger)
		return
	}

	thumbFile, thumbHeader, err := r.FormFile("thumb")
	switch {
	case err == nil:
		defer thumbFile.Close()
		parts = append(parts, filePart(usecase.RoleThumbnail, thumbFile, thumbHeader))
	case errors.Is(err, http.ErrMissingFile):
		// миниатюра опциональна
	default:
		respondWithError(w, http.StatusBadRequest, "некорректное поле thumb", h.logger)
		return
	}

	post, err := h.uploadUseCase.AcceptUpload(r.Context(), user, usecase.UploadRequest{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Parts:       parts,
	})
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, post, h.logger)
}

// filePart строит описание файла с явной ролью из части multipart-формы
func filePart(role usecase.FileRole, file multipart.File, header *multipart.FileHeader) usecase.FilePart {
	return usecase.FilePart{
		Role:     role,
		MIMEType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Ext:      strings.ToLower(filepath.Ext(header.Filename)),
		Data:     file,
	}
}

// ListRecentPosts — последние публикации каталога.
func (h *Handler) ListRecentPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	posts, err := h.catalogUseCase.ListRecent(r.Context(), limit)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, posts, h.logger)
}

// SearchPosts — поиск по каталогу.
func (h *Handler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.catalogUseCase.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, posts, h.logger)
}

// GetPost — детальная информация о публикации с username автора.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "некорректный идентификатор публикации", h.logger)
		return
	}

	post, err := h.catalogUseCase.GetPostByID(r.Context(), postID)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}
	if post == nil {
		respondWithError(w, http.StatusNotFound, "публикация не найдена", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, post, h.logger)
}
