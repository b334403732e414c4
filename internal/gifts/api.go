package gifts

import (
	"context"
	"fmt"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

// Gift is one entry of an event's gift fund
type Gift struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type NewGiftParams struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type Api struct {
	client *corehub.PrivateClient
}

func NewApi(client *corehub.PrivateClient) *Api {
	return &Api{client: client}
}

func (api *Api) List(ctx context.Context, eventID string) ([]Gift, error) {
	var gifts []Gift
	path := fmt.Sprintf("/admin/event/%s/gifts", eventID)
	if err := api.client.Get(ctx, path, &gifts); err != nil {
		return nil, fmt.Errorf("list gifts for event %s: %w", eventID, err)
	}
	return gifts, nil
}

func (api *Api) Create(ctx context.Context, eventID string, params NewGiftParams) (Gift, error) {
	var gift Gift
	path := fmt.Sprintf("/admin/event/%s/gifts", eventID)
	if err := api.client.Post(ctx, path, params, &gift); err != nil {
		return Gift{}, fmt.Errorf("create gift for event %s: %w", eventID, err)
	}
	return gift, nil
}

func (api *Api) Delete(ctx context.Context, eventID, giftID string) error {
	path := fmt.Sprintf("/admin/event/%s/gifts/%s", eventID, giftID)
	if err := api.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete gift %s of event %s: %w", giftID, eventID, err)
	}
	return nil
}
