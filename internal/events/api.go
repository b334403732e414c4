package events

import (
	"context"
	"fmt"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

type NewEventParams struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	MediaURLs   []string `json:"mediaUrls,omitempty"`
}

// Api wraps the core API event endpoints behind the authenticated client
type Api struct {
	client *corehub.PrivateClient
}

func NewApi(client *corehub.PrivateClient) *Api {
	return &Api{client: client}
}

func (api *Api) List(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := api.client.Get(ctx, "/admin/event", &events); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (api *Api) Create(ctx context.Context, params NewEventParams) (Event, error) {
	var event Event
	if err := api.client.Post(ctx, "/admin/event", params, &event); err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (api *Api) Delete(ctx context.Context, id string) error {
	if err := api.client.Delete(ctx, "/admin/event/"+id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}
