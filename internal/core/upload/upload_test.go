package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptKey(t *testing.T) {
	id := uuid.MustParse("6f1c2f9e-2a4b-4c1e-9d55-0c9b7f7f3a10")
	at := time.Date(2025, 8, 15, 23, 30, 0, 0, time.FixedZone("WIB", 7*3600))

	assert.Equal(t, "receipts/2025/08/6f1c2f9e-2a4b-4c1e-9d55-0c9b7f7f3a10.jpg", ReceiptKey(id, "image/jpeg", at))
	assert.Equal(t, "receipts/2025/08/6f1c2f9e-2a4b-4c1e-9d55-0c9b7f7f3a10.png", ReceiptKey(id, "image/png", at))
	assert.Equal(t, "receipts/2025/08/6f1c2f9e-2a4b-4c1e-9d55-0c9b7f7f3a10.bin", ReceiptKey(id, "application/pdf", at))
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(context.Background(), ProviderConfig{})
	require.NoError(t, err)
	assert.Nil(t, provider)

	provider, err = NewProvider(context.Background(), ProviderConfig{Type: "none"})
	require.NoError(t, err)
	assert.Nil(t, provider)

	provider, err = NewProvider(context.Background(), ProviderConfig{Type: "LOCAL", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "Local Storage", provider.GetProviderName())

	_, err = NewProvider(context.Background(), ProviderConfig{Type: "s3"})
	assert.Error(t, err)

	_, err = NewProvider(context.Background(), ProviderConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestLocalProvider(t *testing.T) {
	dir := t.TempDir()
	provider, err := NewLocalProvider(dir, "http://localhost:8080/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := provider.Save(ctx, "receipts/2025/08/a.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/receipt-images/receipts/2025/08/a.jpg", obj.URL)
	assert.Equal(t, int64(4), obj.Size)

	data, err := os.ReadFile(filepath.Join(dir, "receipts", "2025", "08", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	_, err = provider.Save(ctx, "../escape.jpg", []byte("x"), "image/jpeg")
	assert.Error(t, err)

	require.NoError(t, provider.Delete(ctx, "receipts/2025/08/a.jpg"))
	assert.ErrorContains(t, provider.Delete(ctx, "receipts/2025/08/a.jpg"), "file not found")
}

func TestArchive(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "")
	require.NoError(t, err)
	archive := NewArchive(provider)
	id := uuid.New()
	at := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

	obj, err := archive.SaveReceipt(context.Background(), id, []byte("png"), "image/png", at)
	require.NoError(t, err)
	assert.Equal(t, ReceiptKey(id, "image/png", at), obj.Key)

	_, err = archive.SaveReceipt(context.Background(), id, nil, "image/png", at)
	assert.Error(t, err)

	require.NoError(t, archive.Delete(context.Background(), obj.Key))
}

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func recordingServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)})
		mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func TestS3Provider(t *testing.T) {
	server, requests := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	})

	provider, err := NewS3Provider(context.Background(), S3Config{
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Region:          "ap-southeast-3",
		Bucket:          "struk",
		Endpoint:        server.URL,
	})
	require.NoError(t, err)

	obj, err := provider.Save(context.Background(), "receipts/2025/08/a.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/struk/receipts/2025/08/a.jpg", obj.URL)

	require.NoError(t, provider.Delete(context.Background(), "receipts/2025/08/a.jpg"))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/struk/receipts/2025/08/a.jpg", got[0].path)
	assert.Equal(t, "image/jpeg", got[0].contentType)
	assert.Equal(t, "jpeg", got[0].body)
	assert.Equal(t, http.MethodDelete, got[1].method)
}

func TestS3ProviderDefaultURL(t *testing.T) {
	provider, err := NewS3Provider(context.Background(), S3Config{AccessKeyID: "a", SecretAccessKey: "b", Bucket: "struk"})
	require.NoError(t, err)
	assert.Equal(t, "https://struk.s3.us-east-1.amazonaws.com/receipts/x.jpg", provider.GetURL("receipts/x.jpg"))
}

func TestCloudinaryProvider(t *testing.T) {
	server, requests := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"public_id":  "receipts/2025/08/a",
			"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/receipts/2025/08/a.jpg",
			"bytes":      4,
		})
	})

	provider, err := NewCloudinaryProvider("demo", "key", "secret")
	require.NoError(t, err)
	provider.cld.Config.API.UploadPrefix = server.URL

	obj, err := provider.Save(context.Background(), "receipts/2025/08/a.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "receipts/2025/08/a", obj.Key)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/receipts/2025/08/a.jpg", obj.URL)
	assert.Equal(t, int64(4), obj.Size)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPost, got[0].method)
	assert.Contains(t, got[0].body, "receipts/2025/08/a")
}
