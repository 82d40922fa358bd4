package state

import (
	"github.com/indieinfra/scribble-media/catalog"
	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/manager"
	"github.com/indieinfra/scribble-media/metrics"
)

type MediaState struct {
	Cfg     *config.Config
	Manager *manager.Manager
	Metrics *metrics.Registry
	Catalog catalog.Catalog
}
