package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/renterra/backoffice/modules/uploads/domain/upload"
	"github.com/renterra/backoffice/modules/uploads/services"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/composables"
	"github.com/renterra/backoffice/pkg/configuration"
	"github.com/renterra/backoffice/pkg/httpapi"
	"github.com/renterra/backoffice/pkg/middleware"
)

type UploadAPIController struct {
	app      application.Application
	uploads  *services.UploadService
	basePath string
}

func NewUploadAPIController(app application.Application) application.Controller {
	return &UploadAPIController{
		app:      app,
		uploads:  app.Service(services.UploadService{}).(*services.UploadService),
		basePath: "/uploads",
	}
}

func (c *UploadAPIController) Key() string {
	return c.basePath
}

func (c *UploadAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideActor())
	router.Use(middleware.WithTransaction())
	router.HandleFunc("", c.Create).Methods(http.MethodPost)

	fileRouter := r.PathPrefix(services.FileBasePath).Subrouter()
	fileRouter.HandleFunc("{path}", c.Serve).Methods(http.MethodGet)
}

func (c *UploadAPIController) Create(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_INVALID_FORM", err.Error(), nil)
		return
	}
	files, ok := r.MultipartForm.File["file"]
	if !ok || len(files) == 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_NO_FILE", "no file(s) found", nil)
		return
	}

	type uploadedFile struct {
		Name      string `json:"name"`
		SizeBytes int64  `json:"size_bytes"`
		MimeType  string `json:"mime_type"`
		Locator   string `json:"locator"`
	}

	out := make([]uploadedFile, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_UNREADABLE", err.Error(), nil)
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_UNREADABLE", err.Error(), nil)
			return
		}

		created, err := c.uploads.Create(r.Context(), header.Filename, data)
		if err != nil {
			if errors.Is(err, upload.ErrEmptyFile) {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_EMPTY", "uploaded file is empty", nil)
				return
			}
			composables.UseLogger(r.Context()).WithError(err).Error("upload failed")
			_ = httpapi.WriteError(w, http.StatusInternalServerError, "UPLOAD_INTERNAL", "internal error", nil)
			return
		}
		out = append(out, uploadedFile{
			Name:      created.Name(),
			SizeBytes: created.SizeBytes(),
			MimeType:  created.MimeType(),
			Locator:   services.FileBasePath + created.Path(),
		})
	}

	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"files": out})
}

func (c *UploadAPIController) Serve(w http.ResponseWriter, r *http.Request) {
	entity, data, err := c.uploads.Open(r.Context(), mux.Vars(r)["path"])
	if err != nil {
		if errors.Is(err, upload.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("file read failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "UPLOAD_INTERNAL", "internal error", nil)
		return
	}
	w.Header().Set("Content-Type", entity.MimeType())
	_, _ = w.Write(data)
}
