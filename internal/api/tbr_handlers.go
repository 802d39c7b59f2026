package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/service"
)

func (s *Server) registerTBRRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTBR",
		Method:      http.MethodGet,
		Path:        "/api/v1/tbr",
		Summary:     "List reading queue",
		Description: "Returns the user's to-be-read entries, oldest first",
		Tags:        []string{"TBR"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTBR)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addTBR",
		Method:        http.MethodPost,
		Path:          "/api/v1/tbr",
		Summary:       "Queue book",
		Description:   "Adds a book to the user's reading queue",
		Tags:          []string{"TBR"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddTBR)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTBR",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tbr/{id}",
		Summary:     "Remove from queue",
		Description: "Removes an entry from the reading queue",
		Tags:        []string{"TBR"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTBR)

	huma.Register(s.api, huma.Operation{
		OperationID: "startTBR",
		Method:      http.MethodPost,
		Path:        "/api/v1/tbr/{id}/start",
		Summary:     "Start reading",
		Description: "Moves a queued book onto the shelves as in progress, started today",
		Tags:        []string{"TBR"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartTBR)
}

// === DTOs ===

// ListTBRResponse contains the reading queue.
type ListTBRResponse struct {
	Entries []*domain.TBREntry `json:"entries" doc:"Queue entries, oldest first"`
}

// ListTBROutput wraps the list response for Huma.
type ListTBROutput struct {
	Body ListTBRResponse
}

// AddTBRInput wraps the add request for Huma.
type AddTBRInput struct {
	Body service.AddTBRRequest
}

// TBROutput wraps a queue entry for Huma.
type TBROutput struct {
	Body *domain.TBREntry
}

// TBRIDInput identifies a queue entry by path.
type TBRIDInput struct {
	ID string `path:"id" doc:"TBR entry ID"`
}

// StartReadingOutput wraps the start reading result for Huma.
type StartReadingOutput struct {
	Body *service.StartReadingResult
}

// === Handlers ===

func (s *Server) handleListTBR(ctx context.Context, _ *struct{}) (*ListTBROutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.TBR.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListTBROutput{Body: ListTBRResponse{Entries: nonNil(entries)}}, nil
}

func (s *Server) handleAddTBR(ctx context.Context, input *AddTBRInput) (*TBROutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.TBR.AddEntry(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &TBROutput{Body: entry}, nil
}

func (s *Server) handleDeleteTBR(ctx context.Context, input *TBRIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.TBR.DeleteEntry(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Entry removed"}}, nil
}

func (s *Server) handleStartTBR(ctx context.Context, input *TBRIDInput) (*StartReadingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.TBR.StartReading(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &StartReadingOutput{Body: result}, nil
}
