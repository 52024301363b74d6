package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnizeh/folio/api"
	"github.com/garnizeh/folio/internal/blob"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartBody(t *testing.T, folder, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		require.NoError(t, mw.WriteField("folder", folder))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *server) upload(t *testing.T, cred, folder, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, folder, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	if cred != "" {
		req.Header.Set(api.AdminHeader, cred)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func TestUploadAndServe(t *testing.T) {
	s := newServer(t)

	// no declared type: the content is sniffed
	w := s.upload(t, secret, "projects", "logo.png", "", pngHeader)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var obj blob.Object
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &obj))
	require.Equal(t, "/uploads/"+obj.Pathname, obj.URL)
	require.Equal(t, int64(len(pngHeader)), obj.Size)

	get := httptest.NewRecorder()
	s.handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, obj.URL, nil))
	require.Equal(t, http.StatusOK, get.Code)
	require.Equal(t, pngHeader, get.Body.Bytes())
}

func TestUploadRejects(t *testing.T) {
	s := newServer(t)

	w := s.upload(t, "", "", "logo.png", "image/png", pngHeader)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.upload(t, secret, "", "notes.txt", "text/plain", []byte("hello"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "VALIDATION_FAILED", decodeError(t, w).Code)

	w = s.upload(t, secret, "../../etc", "logo.png", "image/png", pngHeader)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, secret, "", "big.png", "image/png", bytes.Repeat([]byte{1}, 2048))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadServedAsImage(t *testing.T) {
	s := newServer(t)

	w := s.upload(t, secret, "projects", "x.html", "image/png", pngHeader)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var obj blob.Object
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &obj))
	require.True(t, strings.HasSuffix(obj.Pathname, ".png"), obj.Pathname)

	get := httptest.NewRecorder()
	s.handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, obj.URL, nil))
	require.Equal(t, http.StatusOK, get.Code)
	require.Equal(t, "image/png", get.Header().Get("Content-Type"))
	require.Equal(t, "nosniff", get.Header().Get("X-Content-Type-Options"))
	require.Contains(t, get.Header().Get("Content-Security-Policy"), "sandbox")
}
