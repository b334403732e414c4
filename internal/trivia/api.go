package trivia

import (
	"context"
	"fmt"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

// Group is a named round of trivia questions within an event
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Question belongs to one group; Answer holds the correct option verbatim
type Question struct {
	ID      string   `json:"id"`
	GroupID string   `json:"groupId"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

type NewGroupParams struct {
	Name string `json:"name"`
}

type NewQuestionParams struct {
	GroupID string   `json:"groupId"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

type Api struct {
	client *corehub.PrivateClient
}

func NewApi(client *corehub.PrivateClient) *Api {
	return &Api{client: client}
}

func (api *Api) ListGroups(ctx context.Context, eventID string) ([]Group, error) {
	var groups []Group
	path := fmt.Sprintf("/admin/event/%s/trivia/group", eventID)
	if err := api.client.Get(ctx, path, &groups); err != nil {
		return nil, fmt.Errorf("list trivia groups for event %s: %w", eventID, err)
	}
	return groups, nil
}

func (api *Api) CreateGroup(ctx context.Context, eventID string, params NewGroupParams) (Group, error) {
	var group Group
	path := fmt.Sprintf("/admin/event/%s/trivia/group", eventID)
	if err := api.client.Post(ctx, path, params, &group); err != nil {
		return Group{}, fmt.Errorf("create trivia group for event %s: %w", eventID, err)
	}
	return group, nil
}

func (api *Api) DeleteGroup(ctx context.Context, eventID, groupID string) error {
	path := fmt.Sprintf("/admin/event/%s/trivia/group/%s", eventID, groupID)
	if err := api.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete trivia group %s of event %s: %w", groupID, eventID, err)
	}
	return nil
}

func (api *Api) ListQuestions(ctx context.Context, eventID string) ([]Question, error) {
	var questions []Question
	path := fmt.Sprintf("/admin/event/%s/trivia/question", eventID)
	if err := api.client.Get(ctx, path, &questions); err != nil {
		return nil, fmt.Errorf("list trivia questions for event %s: %w", eventID, err)
	}
	return questions, nil
}

func (api *Api) CreateQuestion(ctx context.Context, eventID string, params NewQuestionParams) (Question, error) {
	var question Question
	path := fmt.Sprintf("/admin/event/%s/trivia/question", eventID)
	if err := api.client.Post(ctx, path, params, &question); err != nil {
		return Question{}, fmt.Errorf("create trivia question for event %s: %w", eventID, err)
	}
	return question, nil
}

func (api *Api) DeleteQuestion(ctx context.Context, eventID, questionID string) error {
	path := fmt.Sprintf("/admin/event/%s/trivia/question/%s", eventID, questionID)
	if err := api.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete trivia question %s of event %s: %w", questionID, eventID, err)
	}
	return nil
}
