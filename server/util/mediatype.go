package util

import (
	"fmt"
	"mime"
	"net/http"
	"path"
	"slices"

	"github.com/indieinfra/scribble-media/server/resp"
)

func RequireValidMediaContentType(w http.ResponseWriter, r *http.Request) (string, bool) {
	return requireValidContentType(w, r, []string{"multipart/form-data"})
}

func ExtractMediaType(w http.ResponseWriter, r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		resp.WriteUnsupportedMediaType(w, "Content-Type must be specified")
		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		resp.WriteUnsupportedMediaType(w, fmt.Errorf("invalid Content-Type: %w", err).Error())
		return "", false
	}

	return mediaType, true
}

func requireValidContentType(w http.ResponseWriter, r *http.Request, valid []string) (string, bool) {
	mediaType, ok := ExtractMediaType(w, r)
	if !ok {
		return "", false
	}

	if !slices.Contains(valid, mediaType) {
		resp.WriteUnsupportedMediaType(w, fmt.Sprintf("only %v allowed", valid))
		return mediaType, false
	}

	return mediaType, true
}

// FileContentType returns the declared content type of an uploaded part,
// falling back to the filename extension.
func FileContentType(declared, filename string) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}

	if byExt := mime.TypeByExtension(path.Ext(filename)); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}

	return "application/octet-stream"
}
