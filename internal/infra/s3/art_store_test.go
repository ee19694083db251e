package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"nursing-album-service/internal/domain"
)

func TestUploadArtPutsObject(t *testing.T) {
	var (
		mu        sync.Mutex
		gotMethod string
		gotPath   string
		gotBody   string
		gotType   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod, gotPath, gotBody, gotType = r.Method, r.URL.Path, string(body), r.Header.Get("Content-Type")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewArtStore(Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "album",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		CDNURL:          "https://cdn.example.com/",
	})
	url, err := store.UploadArt(context.Background(), "data:image/png;base64,QUJD")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotMethod != http.MethodPut || !strings.HasPrefix(gotPath, "/album/stickers/") || !strings.HasSuffix(gotPath, ".png") {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if !strings.Contains(gotBody, "ABC") || gotType != "image/png" {
		t.Fatalf("unexpected body %q type %q", gotBody, gotType)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/stickers/") {
		t.Fatalf("unexpected public url %q", url)
	}
}

func TestDecodeDataURIRejectsBadInput(t *testing.T) {
	cases := []string{
		"https://picsum.photos/300/300",
		"data:image/png,QUJD",
		"data:text/plain;base64,QUJD",
		"data:image/png;base64,***",
	}
	for _, in := range cases {
		if _, _, err := decodeDataURI(in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", in, err)
		}
	}
}
