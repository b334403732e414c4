package vendors

import (
	"context"
	"fmt"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

// Vendor is a service provider attached to an event (caterer, band,
// photographer and the like)
type Vendor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type NewVendorParams struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type Api struct {
	client *corehub.PrivateClient
}

func NewApi(client *corehub.PrivateClient) *Api {
	return &Api{client: client}
}

func (api *Api) List(ctx context.Context, eventID string) ([]Vendor, error) {
	var vendors []Vendor
	path := fmt.Sprintf("/admin/event/%s/vendor-detail", eventID)
	if err := api.client.Get(ctx, path, &vendors); err != nil {
		return nil, fmt.Errorf("list vendors for event %s: %w", eventID, err)
	}
	return vendors, nil
}

func (api *Api) Create(ctx context.Context, eventID string, params NewVendorParams) (Vendor, error) {
	var vendor Vendor
	path := fmt.Sprintf("/admin/event/%s/vendor-detail", eventID)
	if err := api.client.Post(ctx, path, params, &vendor); err != nil {
		return Vendor{}, fmt.Errorf("create vendor for event %s: %w", eventID, err)
	}
	return vendor, nil
}

func (api *Api) Delete(ctx context.Context, eventID, vendorID string) error {
	path := fmt.Sprintf("/admin/event/%s/vendor-detail/%s", eventID, vendorID)
	if err := api.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete vendor %s of event %s: %w", vendorID, eventID, err)
	}
	return nil
}
