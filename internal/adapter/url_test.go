package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "localhost:9000", want: "http://localhost:9000"},
		{raw: " https://mod.example.com/ ", want: "https://mod.example.com"},
		{raw: "", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/users/u1/a%20b.png", joinURL("https://cdn.example.com/", "/users/u1/a b.png"))
	assert.Equal(t, "http://minio:9000/bucket/k", joinURL("http://minio:9000", "bucket/k"))
}
