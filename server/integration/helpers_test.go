//go:build testcontainers
// +build testcontainers

package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/media"
	"github.com/indieinfra/scribble-media/server"
	"github.com/indieinfra/scribble-media/server/state"
)

func testLimits() config.ServerLimits {
	return config.ServerLimits{MaxFileSize: 1 << 20, MaxMultipartMem: 1 << 20}
}

func newState(t *testing.T, cfg *config.Config) *state.MediaState {
	t.Helper()

	st, err := server.Initialize(cfg)
	if err != nil {
		t.Fatalf("failed to initialize: %v", err)
	}
	t.Cleanup(func() { server.Cleanup(st) })

	return st
}

func uploadFile(t *testing.T, st *state.MediaState, provider, filename, contentType string, data []byte) (*httptest.ResponseRecorder, *media.Item) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/media/"+provider, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	server.NewRouter(st).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		return rec, nil
	}

	var item media.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to decode item: %v", err)
	}

	return rec, &item
}

func deleteItem(t *testing.T, st *state.MediaState, id string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodDelete, "/media/"+id, nil)
	rec := httptest.NewRecorder()
	server.NewRouter(st).ServeHTTP(rec, req)
	return rec.Code
}
