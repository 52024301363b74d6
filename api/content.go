package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/qri-io/jsonschema"
	"golang.org/x/sync/singleflight"

	"github.com/garnizeh/folio/internal/admin"
	"github.com/garnizeh/folio/pkg/models"
)

// AdminHeader carries the shared admin secret.
const AdminHeader = "X-Admin-Password"

// maxPayload bounds admin request bodies.
const maxPayload = 1 << 20

// ContentHandler serves the admin CRUD routes and the cached public reads.
type ContentHandler struct {
	gateway *admin.Gateway
	schemas map[models.Kind]*jsonschema.Schema
	cache   *cache.Cache
	group   singleflight.Group

	mu  sync.Mutex
	gen map[models.Kind]uint64
}

// NewContentHandler builds the handler; public reads are cached for ttl and
// dropped whenever the gateway reports a change.
func NewContentHandler(g *admin.Gateway, ttl time.Duration) (*ContentHandler, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	h := &ContentHandler{
		gateway: g,
		schemas: schemas,
		cache:   cache.New(ttl, 2*ttl),
		gen:     make(map[models.Kind]uint64),
	}
	g.OnChange(h.Invalidate)
	return h, nil
}

// Invalidate drops the cached public read of kind. A read already in flight
// is not cached once it completes.
func (h *ContentHandler) Invalidate(kind models.Kind) {
	h.mu.Lock()
	h.gen[kind]++
	h.cache.Delete(string(kind))
	h.mu.Unlock()
	h.group.Forget(string(kind))
}

func (h *ContentHandler) generation(kind models.Kind) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen[kind]
}

// store caches v unless kind was invalidated since generation gen.
func (h *ContentHandler) store(kind models.Kind, gen uint64, v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen[kind] == gen {
		h.cache.SetDefault(string(kind), v)
	}
}

func (h *ContentHandler) Public(w http.ResponseWriter, r *http.Request) {
	kind, err := kindVar(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if v, ok := h.cache.Get(string(kind)); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, v, http.StatusOK)
		return
	}
	// concurrent misses for one kind share a single backend read, which
	// must outlive the request that happened to start it
	ctx := context.WithoutCancel(r.Context())
	v, err, _ := h.group.Do(string(kind), func() (any, error) {
		if v, ok := h.cache.Get(string(kind)); ok {
			return v, nil
		}
		gen := h.generation(kind)
		v, err := h.gateway.Read(ctx, kind)
		if err != nil {
			return nil, err
		}
		h.store(kind, gen, v)
		return v, nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, v, http.StatusOK)
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := kindVar(r)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := h.gateway.List(r.Context(), credential(r), kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, v, http.StatusOK)
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, payload, err := h.payload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.gateway.Create(r.Context(), credential(r), kind, payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true}, http.StatusCreated)
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, payload, err := h.payload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	key := mux.Vars(r)["key"]
	if err := h.gateway.Update(r.Context(), credential(r), kind, key, payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, err := kindVar(r)
	if err != nil {
		writeError(w, err)
		return
	}
	key := mux.Vars(r)["key"]
	if err := h.gateway.Delete(r.Context(), credential(r), kind, key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// payload reads the request body and checks its shape. The credential is
// verified first so that unauthenticated callers learn nothing about the
// payload rules.
func (h *ContentHandler) payload(w http.ResponseWriter, r *http.Request) (models.Kind, []byte, error) {
	kind, err := kindVar(r)
	if err != nil {
		return "", nil, err
	}
	if err := h.gateway.Authorize(credential(r)); err != nil {
		return "", nil, err
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", nil, &admin.Error{Code: admin.CodeValidationFailed, Message: "payload too large", Cause: err}
		}
		return "", nil, err
	}
	if err := checkShape(r.Context(), h.schemas[kind], kind, body); err != nil {
		return "", nil, err
	}
	return kind, body, nil
}

func kindVar(r *http.Request) (models.Kind, error) {
	kind, err := models.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		return "", &admin.Error{Code: admin.CodeValidationFailed, Message: err.Error(), Cause: err}
	}
	return kind, nil
}

func credential(r *http.Request) string {
	return r.Header.Get(AdminHeader)
}
