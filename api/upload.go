package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/garnizeh/folio/internal/admin"
	"github.com/garnizeh/folio/internal/blob"
)

type UploadHandler struct {
	gateway  *admin.Gateway
	uploader blob.Uploader
	maxBytes int64
}

func NewUploadHandler(g *admin.Gateway, u blob.Uploader, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadHandler{gateway: g, uploader: u, maxBytes: maxBytes}
}

// Upload stores the multipart "file" field under the optional "folder" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.Authorize(credential(r)); err != nil {
		writeError(w, err)
		return
	}

	// leave room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, invalid("invalid multipart upload", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, invalid("no file provided", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			writeError(w, err)
			return
		}
	}

	obj, err := h.uploader.Upload(r.Context(), r.FormValue("folder"), header.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, blob.ErrNotImage) || errors.Is(err, blob.ErrTooLarge) || errors.Is(err, blob.ErrBadFolder) {
			err = invalid(err.Error(), err)
		}
		writeError(w, err)
		return
	}
	logger.Info("upload stored", "pathname", obj.Pathname, "size", obj.Size)
	writeJSON(w, obj, http.StatusCreated)
}

func invalid(msg string, cause error) *admin.Error {
	return &admin.Error{Code: admin.CodeValidationFailed, Message: msg, Cause: cause}
}
