package util

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/indieinfra/scribble-media/server/resp"
)

type MultipartValues map[string]any

type MultipartFile struct {
	Field  string
	File   multipart.File
	Header *multipart.FileHeader
}

// ParseMultipartFiles parses a multipart body and opens the files posted under
// any of fields (a trailing "[]" on the form name is ignored). On failure a
// 400 response has already been written and ok is false.
func ParseMultipartFiles(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, fields []string, required bool) (MultipartValues, []MultipartFile, bool) {
	limit := maxMemory
	if maxFileSize > 0 {
		limit += maxFileSize
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		resp.WriteInvalidRequest(w, fmt.Sprintf("failed to parse multipart body: %v", err))
		return nil, nil, false
	}

	values := extractValues(r)

	files, err := extractFiles(r, maxFileSize, fields)
	if err != nil {
		closeFiles(files)
		resp.WriteInvalidRequest(w, err.Error())
		return nil, nil, false
	}

	if required && len(files) == 0 {
		resp.WriteInvalidRequest(w, fmt.Sprintf("a file is required in one of %v", fields))
		return nil, nil, false
	}

	return values, files, true
}

// ParseMultipartWithFirstFile is ParseMultipartFiles for endpoints that take a
// single file.
func ParseMultipartWithFirstFile(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, fields []string, required bool) (MultipartValues, multipart.File, *multipart.FileHeader, string, bool) {
	values, files, ok := ParseMultipartFiles(w, r, maxMemory, maxFileSize, fields, required)
	if !ok {
		return nil, nil, nil, "", false
	}

	switch len(files) {
	case 0:
		return values, nil, nil, "", true
	case 1:
		return values, files[0].File, files[0].Header, files[0].Field, true
	default:
		closeFiles(files)
		resp.WriteInvalidRequest(w, "only one file may be uploaded per request")
		return nil, nil, nil, "", false
	}
}

func extractValues(r *http.Request) MultipartValues {
	values := make(MultipartValues)

	if r.MultipartForm != nil {
		for key, arr := range r.MultipartForm.Value {
			switch len(arr) {
			case 0:
				continue
			case 1:
				values[key] = arr[0]
			default:
				asAny := make([]any, len(arr))
				for i, v := range arr {
					asAny[i] = v
				}
				values[key] = asAny
			}
		}
	}

	return values
}

func extractFiles(r *http.Request, maxFileSize int64, fields []string) ([]MultipartFile, error) {
	var filesOut []MultipartFile

	if r.MultipartForm == nil {
		return nil, nil
	}

	for key, fhs := range r.MultipartForm.File {
		field := strings.TrimSuffix(key, "[]")
		if !slices.Contains(fields, field) {
			log.Println("ignored file in unexpected field:", key)
			continue
		}

		for _, fh := range fhs {
			if fh.Filename == "" {
				return filesOut, fmt.Errorf("file in field %q has no filename", key)
			}

			if maxFileSize > 0 && fh.Size > maxFileSize {
				return filesOut, fmt.Errorf("file %q exceeds the maximum size of %d bytes", fh.Filename, maxFileSize)
			}

			f, err := fh.Open()
			if err != nil {
				return filesOut, fmt.Errorf("could not open file %q: %w", fh.Filename, err)
			}

			filesOut = append(filesOut, MultipartFile{Field: field, File: f, Header: fh})
		}
	}

	return filesOut, nil
}

func closeFiles(files []MultipartFile) {
	for _, mf := range files {
		if mf.File != nil {
			mf.File.Close()
		}
	}
}
