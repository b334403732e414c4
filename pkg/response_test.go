package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	rr := httptest.NewRecorder()

	testJson := `{"key":"val"}`
	WriteResponseBytes(rr, ContentType.JSON, []byte(testJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, ContentType.JSON, rr.Header().Get("Content-Type"))
	assert.Equal(t, testJson, rr.Body.String())
}

func TestWriteTextResponseOK(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteTextResponseOK(rr, "test text")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ContentType.Text, rr.Header().Get("Content-Type"))
	assert.Equal(t, "test text", rr.Body.String())
}

func TestWriteJSONResponseOK(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSONResponseOK(rr, `{"ok":true}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ContentType.JSON, rr.Header().Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, rr.Body.String())
}

func TestSendJSONError(t *testing.T) {
	rr := httptest.NewRecorder()

	SendJSONError(rr, http.StatusConflict, "no event selected")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"no event selected"}`, rr.Body.String())
}
