package profile

import (
	"context"
	"fmt"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

type Api struct {
	client *corehub.PrivateClient
}

func NewApi(client *corehub.PrivateClient) *Api {
	return &Api{client: client}
}

func (api *Api) Me(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := api.client.Get(ctx, "/user/me", &profile); err != nil {
		return Profile{}, fmt.Errorf("get current user: %w", err)
	}
	return profile, nil
}
