package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/readlog/readlog-server/internal/errors"
)

// exportFilename matches the name Goodreads gives its own exports.
const exportFilename = "goodreads_library_export.csv"

func (s *Server) registerInterchangeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/export",
		Summary:     "Export library",
		Description: "Downloads the user's shelves and queue as a Goodreads-compatible CSV",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExportLibrary)

	// Multipart upload (chi direct, not huma)
	s.router.Post("/api/v1/library/import", s.handleImportLibrary)
}

// ImportResponse reports the outcome of a Goodreads import.
type ImportResponse struct {
	Imported int      `json:"imported" doc:"Rows stored"`
	Errors   []string `json:"errors" doc:"One message per rejected row"`
}

func (s *Server) handleExportLibrary(ctx context.Context, _ *struct{}) (*huma.StreamResponse, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Buffered so a store failure still becomes a proper error response.
	var buf bytes.Buffer
	summary, err := s.services.Interchange.Export(ctx, userID, &buf)
	if err != nil {
		return nil, err
	}

	s.logger.Info("library exported", "user_id", userID, "books", summary.Books, "tbr", summary.TBR)

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", "text/csv; charset=utf-8")
			ctx.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
			ctx.SetHeader("Content-Length", strconv.Itoa(buf.Len()))
			ctx.SetHeader("Cache-Control", CacheNoStore)
			if _, err := buf.WriteTo(ctx.BodyWriter()); err != nil {
				s.logger.Warn("export write failed", "user_id", userID, "error", err)
			}
		},
	}, nil
}

func (s *Server) handleImportLibrary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := GetUserID(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxImportBytes)
	if err := r.ParseMultipartForm(s.maxImportBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, &APIError{
				status:  http.StatusRequestEntityTooLarge,
				Code:    statusToCode(http.StatusRequestEntityTooLarge),
				Message: fmt.Sprintf("import file exceeds %d bytes", s.maxImportBytes),
			})
			return
		}
		writeError(w, domainerrors.Validation("failed to parse form data"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(ImportFormField)
	if err != nil {
		writeError(w, domainerrors.Validationf("no file uploaded, use the %q field", ImportFormField))
		return
	}
	defer file.Close()

	result, err := s.services.Interchange.Import(ctx, userID, file)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("library imported",
		"user_id", userID,
		"filename", header.Filename,
		"imported", result.Imported,
		"errors", len(result.Errors),
	)

	writeEnvelope(w, http.StatusOK, ImportResponse{
		Imported: result.Imported,
		Errors:   nonNil(result.Errors),
	})
}
