package catalog

import (
	"context"
	"log"

	"github.com/indieinfra/scribble-media/media"
)

// NoopCatalog logs what it is given and keeps nothing.
type NoopCatalog struct{}

func (NoopCatalog) Save(ctx context.Context, item *media.Item) error {
	log.Println("Received no-op catalog save request - dumping request information:")
	log.Printf("ID: %v", item.ID)
	log.Printf("Provider: %v", item.Provider)
	log.Printf("Key: %v", item.Key)
	log.Printf("URL: %v", item.URL)
	for key, value := range item.Metadata {
		log.Printf("\t%v: %v", key, value)
	}
	return nil
}

func (NoopCatalog) Get(ctx context.Context, id string) (*media.Item, error) {
	log.Printf("Received no-op catalog get request for %v", id)
	return nil, ErrNotFound
}

func (NoopCatalog) Delete(ctx context.Context, id string) error {
	log.Printf("Received no-op catalog delete request for %v", id)
	return ErrNotFound
}

func (NoopCatalog) ListByProvider(ctx context.Context, provider string) ([]*media.Item, error) {
	log.Printf("Received no-op catalog list request for provider %v", provider)
	return []*media.Item{}, nil
}
