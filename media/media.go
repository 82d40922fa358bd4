package media

import "time"

// Media is anything stored through a named provider.
type Media interface {
	ProviderName() string
}

// Item is a stored media file and the metadata it was written with.
type Item struct {
	ID          string         `json:"id"`
	Provider    string         `json:"provider"`
	Name        string         `json:"name"`
	ContentType string         `json:"content_type"`
	Size        int64          `json:"size"`
	Key         string         `json:"key"`
	URL         string         `json:"url"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (i *Item) ProviderName() string {
	return i.Provider
}
