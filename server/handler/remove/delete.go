package remove

import (
	"net/http"

	"github.com/indieinfra/scribble-media/server/handler/common"
	"github.com/indieinfra/scribble-media/server/resp"
	"github.com/indieinfra/scribble-media/server/state"
)

func HandleDeleteMedia(st *state.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Manager.Delete(r.Context(), r.PathValue("id")); err != nil {
			common.LogAndWriteError(w, r, "delete media", err)
			return
		}

		resp.WriteNoContent(w)
	}
}
