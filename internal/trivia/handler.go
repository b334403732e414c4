package trivia

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/events"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/metrics"
	"github.com/gatherly-app/gatherly-web/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type triviaApi interface {
	ListGroups(ctx context.Context, eventID string) ([]Group, error)
	CreateGroup(ctx context.Context, eventID string, params NewGroupParams) (Group, error)
	DeleteGroup(ctx context.Context, eventID, groupID string) error
	ListQuestions(ctx context.Context, eventID string) ([]Question, error)
	CreateQuestion(ctx context.Context, eventID string, params NewQuestionParams) (Question, error)
	DeleteQuestion(ctx context.Context, eventID, questionID string) error
}

// Handler serves the trivia game content of the currently selected event:
// question groups and the questions within them
type Handler struct {
	api       triviaApi
	selection events.Selection
	metrics   *metrics.Manager
}

func NewHandler(api triviaApi, selection events.Selection, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:       api,
		selection: selection,
		metrics:   metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	triviaRouter := router.PathPrefix("/admin/trivia").Subrouter()
	triviaRouter.HandleFunc("/groups", h.handleListGroups).Methods("GET")
	triviaRouter.HandleFunc("/groups", h.handleCreateGroup).Methods("POST")
	triviaRouter.HandleFunc("/groups/{id}", h.handleDeleteGroup).Methods("DELETE")
	triviaRouter.HandleFunc("/questions", h.handleListQuestions).Methods("GET")
	triviaRouter.HandleFunc("/questions", h.handleCreateQuestion).Methods("POST")
	triviaRouter.HandleFunc("/questions/{id}", h.handleDeleteQuestion).Methods("DELETE")
}

func (h *Handler) handleListGroups(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	groups, err := h.api.ListGroups(r.Context(), event.ID)
	if err != nil {
		log.Errorf("list trivia groups: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	if groups == nil {
		groups = []Group{}
	}
	pkg.SendJSON(w, http.StatusOK, groups)
}

func (h *Handler) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	var params NewGroupParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		pkg.SendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.Name == "" {
		pkg.SendJSONError(w, http.StatusBadRequest, "group name is required")
		return
	}

	group, err := h.api.CreateGroup(r.Context(), event.ID, params)
	if err != nil {
		log.Errorf("create trivia group: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	pkg.SendJSON(w, http.StatusCreated, group)
}

func (h *Handler) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	groupID := mux.Vars(r)["id"]
	if err := h.api.DeleteGroup(r.Context(), event.ID, groupID); err != nil {
		log.Errorf("delete trivia group %s: %s", groupID, err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	questions, err := h.api.ListQuestions(r.Context(), event.ID)
	if err != nil {
		log.Errorf("list trivia questions: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	if questions == nil {
		questions = []Question{}
	}
	pkg.SendJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	var params NewQuestionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		pkg.SendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.Text == "" || params.GroupID == "" {
		pkg.SendJSONError(w, http.StatusBadRequest, "question text and group are required")
		return
	}

	question, err := h.api.CreateQuestion(r.Context(), event.ID, params)
	if err != nil {
		log.Errorf("create trivia question: %s", err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	pkg.SendJSON(w, http.StatusCreated, question)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	event, ok := events.SelectedFromRequest(w, r, h.selection)
	if !ok {
		return
	}

	questionID := mux.Vars(r)["id"]
	if err := h.api.DeleteQuestion(r.Context(), event.ID, questionID); err != nil {
		log.Errorf("delete trivia question %s: %s", questionID, err)
		corehub.WriteError(w, h.metrics, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
