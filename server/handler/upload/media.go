package upload

import (
	"net/http"

	"github.com/indieinfra/scribble-media/server/handler/common"
	"github.com/indieinfra/scribble-media/server/resp"
	"github.com/indieinfra/scribble-media/server/state"
	"github.com/indieinfra/scribble-media/server/util"
)

// HandleMediaUpload stores the multipart "file" field through the provider
// named in the path and answers with the catalogued item.
func HandleMediaUpload(st *state.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := util.RequireValidMediaContentType(w, r); !ok {
			return
		}

		providerName := r.PathValue("provider")

		maxMemory := int64(st.Cfg.Server.Limits.MaxMultipartMem)
		maxSize := int64(st.Cfg.Server.Limits.MaxFileSize)
		_, file, header, _, ok := util.ParseMultipartWithFirstFile(w, r, maxMemory, maxSize, []string{"file"}, true)
		if !ok {
			return
		}
		defer file.Close()

		contentType := util.FileContentType(header.Header.Get("Content-Type"), header.Filename)

		item, err := st.Manager.Upload(r.Context(), providerName, header.Filename, contentType, file, header.Size)
		if err != nil {
			common.LogAndWriteError(w, r, "upload media", err)
			return
		}

		if rl := util.FromContext(r.Context()); rl != nil {
			rl.Infof("stored %q as %q via %s", header.Filename, item.Key, item.Provider)
		}

		resp.WriteCreated(w, item.URL, item)
	}
}
