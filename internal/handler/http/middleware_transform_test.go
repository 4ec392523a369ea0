package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestStorageURLRewriter(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		body    string
		want    string
	}{
		{
			name:    "single url",
			baseURL: "https://bucket.s3.amazonaws.com",
			body:    `{"url":"https://bucket.s3.amazonaws.com/users/u1/a.png"}`,
			want:    `{"url":"/api/images/raw/users/u1/a.png"}`,
		},
		{
			name:    "trailing slash in base url",
			baseURL: "https://res.cloudinary.com/demo/image/upload/",
			body:    `["https://res.cloudinary.com/demo/image/upload/a","https://res.cloudinary.com/demo/image/upload/b"]`,
			want:    `["/api/images/raw/a","/api/images/raw/b"]`,
		},
		{
			name:    "foreign urls untouched",
			baseURL: "https://bucket.s3.amazonaws.com",
			body:    `{"url":"https://example.com/users/u1/a.png"}`,
			want:    `{"url":"https://example.com/users/u1/a.png"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rewrite := StorageURLRewriter(tt.baseURL, rawImagesPrefix)
			assert.Equal(t, tt.want, string(rewrite([]byte(tt.body))))
		})
	}
}

func TestWithResponseTransform(t *testing.T) {
	upper := func(body []byte) []byte { return append([]byte("rewritten:"), body...) }

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name: "json body is rewritten",
			handler: func(w http.ResponseWriter, r *http.Request) {
				utils.WriteJSON(w, map[string]string{"a": "b"}, http.StatusCreated)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `rewritten:{"a":"b"}`,
		},
		{
			name: "binary body streams through",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				w.Write([]byte("png"))
			},
			wantStatus: http.StatusOK,
			wantBody:   "png",
		},
		{
			name: "no body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			wantStatus: http.StatusNoContent,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			withResponseTransform(upper)(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
