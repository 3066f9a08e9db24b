package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, "created", map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusCreated, env.Code)
	assert.Equal(t, "created", env.Message)
	assert.Equal(t, 7, env.Data["id"])
}

func TestError_OmitsData(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "offer not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"data"`)
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"go"}`))
	require.NoError(t, Decode(req, &dst))
	assert.Equal(t, "go", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
	assert.Error(t, Decode(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.EqualError(t, Decode(req, &dst), "request body is required")
}
