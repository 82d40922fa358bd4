package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/indieinfra/scribble-media/catalog"
	"github.com/indieinfra/scribble-media/manager"
	"github.com/indieinfra/scribble-media/server/resp"
	"github.com/indieinfra/scribble-media/server/util"
)

// LogAndWriteError logs an error with request context and maps known conditions to client responses.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	rl := util.FromContext(r.Context())
	if rl == nil {
		rl = util.WithRequest(log.Default(), r)
	}
	rl.Errorf("%s failed: %v", op, err)

	switch {
	case errors.Is(err, manager.ErrUnknownProvider):
		resp.WriteNotFound(w, "unknown media provider")
	case errors.Is(err, catalog.ErrNotFound):
		resp.WriteNotFound(w, "not found")
	default:
		resp.WriteInternalServerError(w, fmt.Sprintf("%s failed", op))
	}
}
