package controllers

import (
	"io"
	"net/http"

	"github.com/teeshirtate/storefront-backend/api/responses"
	uploadsvc "github.com/teeshirtate/storefront-backend/internal/uploads"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
)

// UploadDesign relays a multipart design upload to the uploads service. The
// browser never talks to the bucket directly.
func UploadDesign(svc uploadsvc.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(maxUploadMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, limit+1024)

		if err := r.ParseMultipartForm(limit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
			return
		}

		result, err := svc.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListUploadedImages serves the merged asset listing for the admin picker.
func ListUploadedImages(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images, err := svc.ListImages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, images)
	}
}
