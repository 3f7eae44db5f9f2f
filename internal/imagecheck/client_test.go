package imagecheck

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
		case "/notimage":
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/noctype.jpg":
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client := NewClient()

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"正常图片", srv.URL + "/ok.png", nil},
		{"非图片内容", srv.URL + "/notimage", ErrNotAnImage},
		{"404", srv.URL + "/missing", ErrNotReachable},
		{"无类型头但扩展名可信", srv.URL + "/noctype.jpg", nil},
		{"非 http 协议", "ftp://example.com/a.png", ErrNotReachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Validate(tt.url)
			if err != tt.wantErr {
				t.Errorf("Validate(%q) = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestHasImageExt(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/a.PNG", true},
		{"https://cdn.example.com/a.jpg?size=large", true},
		{"https://cdn.example.com/page.html", false},
		{"https://cdn.example.com/a.webp#frag", true},
	}
	for _, tt := range tests {
		if got := hasImageExt(tt.url); got != tt.want {
			t.Errorf("hasImageExt(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
