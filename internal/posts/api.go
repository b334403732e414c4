package posts

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

// Post is a guest-submitted social post on an event wall. The admin
// surface only reads and removes them, creation happens guest-side.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	MediaURLs []string  `json:"mediaUrls,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Api struct {
	client *corehub.PrivateClient
}

func NewApi(client *corehub.PrivateClient) *Api {
	return &Api{client: client}
}

func (api *Api) List(ctx context.Context, eventID string) ([]Post, error) {
	var posts []Post
	path := fmt.Sprintf("/admin/event/%s/post", eventID)
	if err := api.client.Get(ctx, path, &posts); err != nil {
		return nil, fmt.Errorf("list posts for event %s: %w", eventID, err)
	}
	return posts, nil
}

func (api *Api) Delete(ctx context.Context, eventID, postID string) error {
	path := fmt.Sprintf("/admin/event/%s/post/%s", eventID, postID)
	if err := api.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete post %s of event %s: %w", postID, eventID, err)
	}
	return nil
}
