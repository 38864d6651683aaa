package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/garnizeh/internradar/api"
	"github.com/gorilla/mux"
)

// newTestRouter mounts the path-variable application routes behind a
// middleware that injects a fixed authenticated user.
func newTestRouter(t *testing.T, h *api.ApplicationsHandler) *mux.Router {
	t.Helper()
	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(context.WithValue(r.Context(), api.CtxUserID, int64(5)))
			next.ServeHTTP(w, r)
		})
	})
	router.HandleFunc("/v1/applications/status/{internshipID}", h.Status).Methods("GET")
	router.HandleFunc("/v1/applications/{id}", h.Delete).Methods("DELETE")
	return router
}

func doAuthed(t *testing.T, router *mux.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
