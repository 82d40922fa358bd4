package get

import (
	"net/http"

	"github.com/indieinfra/scribble-media/server/handler/common"
	"github.com/indieinfra/scribble-media/server/resp"
	"github.com/indieinfra/scribble-media/server/state"
)

type providersResponse struct {
	Providers []string `json:"providers"`
}

type listResponse struct {
	Items any `json:"items"`
}

func HandleGetMedia(st *state.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := st.Manager.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			common.LogAndWriteError(w, r, "get media", err)
			return
		}

		resp.WriteOK(w, item)
	}
}

func HandleListMedia(st *state.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := st.Manager.List(r.Context(), r.PathValue("provider"))
		if err != nil {
			common.LogAndWriteError(w, r, "list media", err)
			return
		}

		resp.WriteOK(w, listResponse{Items: items})
	}
}

func HandleProviders(st *state.MediaState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.WriteOK(w, providersResponse{Providers: st.Manager.Providers()})
	}
}
