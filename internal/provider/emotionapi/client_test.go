package emotionapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider"
)

func TestProviderImplementsInterface(t *testing.T) {
	var _ provider.EmotionDetector = (*Provider)(nil)
}

func TestProvider_DetectEmotions(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}

	tests := []struct {
		name           string
		serverStatus   int
		serverBody     string
		wantErr        error
		wantErrContain string
		wantFaces      int
	}{
		{
			name:         "two faces",
			serverStatus: http.StatusOK,
			serverBody: `[{"faceRectangle":{"left":1,"top":2,"width":3,"height":4},"scores":{"happiness":1}},
				{"faceRectangle":{"left":5,"top":6,"width":7,"height":8},"scores":{"anger":1}}]`,
			wantFaces: 2,
		},
		{
			name:         "error object degrades to no faces",
			serverStatus: http.StatusOK,
			serverBody:   `{"error":{"code":"BadArgument","message":"Invalid image"}}`,
			wantFaces:    0,
		},
		{
			name:         "malformed face fails",
			serverStatus: http.StatusOK,
			serverBody:   `[{"faceRectangle":{"left":1,"top":2,"width":3,"height":4}}]`,
			wantErr:      ErrMalformedFace,
		},
		{
			name:           "client error",
			serverStatus:   http.StatusBadRequest,
			serverBody:     `{"error":"bad image"}`,
			wantErr:        ErrUnexpectedStatus,
			wantErrContain: "status 400",
		},
		{
			name:         "server error",
			serverStatus: http.StatusInternalServerError,
			serverBody:   `oops`,
			wantErr:      ErrUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))

				got, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Equal(t, image, got)

				w.WriteHeader(tt.serverStatus)
				_, _ = w.Write([]byte(tt.serverBody))
			}))
			defer server.Close()

			config := DefaultConfig()
			config.URL = server.URL

			p := NewProvider(config)
			faces, err := p.DetectEmotions(context.Background(), image, "image/jpeg")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErrContain != "" {
					assert.Contains(t, err.Error(), tt.wantErrContain)
				}
				return
			}

			require.NoError(t, err)
			assert.Len(t, faces, tt.wantFaces)
		})
	}
}

func TestProvider_PreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"faceRectangle":{"left":3,"top":0,"width":1,"height":1},"scores":{}},
			{"faceRectangle":{"left":1,"top":0,"width":1,"height":1},"scores":{}},
			{"faceRectangle":{"left":2,"top":0,"width":1,"height":1},"scores":{}}
		]`))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.URL = server.URL

	faces, err := NewProvider(config).DetectEmotions(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)

	xs := make([]int, 0, len(faces))
	for _, f := range faces {
		xs = append(xs, f.Rect().X)
	}
	assert.Equal(t, []int{3, 1, 2}, xs)
	assert.IsType(t, domain.Face{}, faces[0])
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.URL = server.URL

	_, err := NewClient(config).Detect(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_RetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	config := Config{URL: server.URL, Timeout: 5 * time.Second, RetryCount: 2}

	body, err := NewClient(config).Detect(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	config := Config{URL: server.URL, Timeout: 50 * time.Millisecond}

	_, err := NewClient(config).Detect(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.URL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(config).Detect(ctx, []byte("img"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_MissingURL(t *testing.T) {
	_, err := NewClient(Config{}).Detect(context.Background(), []byte("img"), "image/png")
	assert.ErrorIs(t, err, ErrMissingEndpointURL)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, backoff(1))
	assert.Equal(t, 500*time.Millisecond, backoff(2))
	assert.Equal(t, time.Second, backoff(3))
	assert.Equal(t, 4*time.Second, backoff(10))
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "http://localhost:5000/emotion", config.URL)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 0, config.RetryCount)
}
