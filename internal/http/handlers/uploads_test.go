package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"greencycle/internal/middleware"
)

func uploadsRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/uploads/{key}", app.UploadsGet)
	return r
}

func TestUploadsGet(t *testing.T) {
	store := &fakeStore{files: map[string][]byte{
		"20240102030405_jacket.png": []byte("\x89PNG\r\n\x1a\nrest"),
	}}
	app := &App{Logger: zerolog.Nop(), Images: store}
	router := uploadsRouter(app)

	req := httptest.NewRequest("GET", "/v1/uploads/20240102030405_jacket.png", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q, want image/png", ct)
	}
	if rr.Body.String() != "\x89PNG\r\n\x1a\nrest" {
		t.Fatalf("body does not match stored bytes")
	}
}

func TestUploadsGetMissing(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Images: &fakeStore{}}
	router := uploadsRouter(app)

	req := httptest.NewRequest("GET", "/v1/uploads/nope.png", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestUploadsGetRequiresAuth(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Images: &fakeStore{}}
	rr := httptest.NewRecorder()

	uploadsRouter(app).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/uploads/x.png", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
