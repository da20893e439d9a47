package app

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/leaf-api/internal/config"
	"github.com/Brownie44l1/leaf-api/internal/logger"
	"github.com/Brownie44l1/leaf-api/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitWithWriter("test", io.Discard)
}

type constClassifier []float32

func (c constClassifier) Probabilities(*model.Batch) ([]float32, error) {
	return c, nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	root := t.TempDir()
	cfg.Static.Dir = filepath.Join(root, "static")
	cfg.Storage.BasePath = filepath.Join(root, "static", "uploads")
	return cfg
}

func pngUpload(t *testing.T, filename string) *http.Request {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 32, 32))))

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSetupRouterServesPipeline(t *testing.T) {
	probs := constClassifier{0.01, 0.02, 0.9, 0.01, 0.01, 0.01, 0.02, 0.01, 0.01}
	router, err := SetupRouter(testConfig(t), probs)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, pngUpload(t, "blight.png"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(model.LateBlight))
	assert.Contains(t, w.Body.String(), "Confidence: 90.0%")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/display/blight.png", nil))
	require.Equal(t, http.StatusMovedPermanently, w.Code)
	location := w.Header().Get("Location")
	assert.Equal(t, "/static/uploads/blight.png", location)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, location, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouterRejectsBadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Type = "ftp"

	_, err := SetupRouter(cfg, constClassifier{})
	assert.Error(t, err)
}
