package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/service/session"
	"github.com/keepsake-lab/keepsake/pkg/usecase"
	"github.com/keepsake-lab/keepsake/pkg/utils/errutil"
)

// errorBody is the input-error response shape, deliberately distinct from a
// turn result so clients cannot confuse a rejected submission with a turn
// that decided "none".
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // header already committed
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, statusCode, body)
}

// writeUsecaseError maps use case sentinels onto HTTP responses
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmptyTranscript):
		writeError(w, http.StatusBadRequest, "input_error", "transcript must not be blank")
	case errors.Is(err, usecase.ErrInvalidMode):
		writeError(w, http.StatusBadRequest, "input_error", "invalid mode")
	case errors.Is(err, usecase.ErrInvalidMemoryInput):
		writeError(w, http.StatusBadRequest, "input_error", "invalid memory input")
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", "unknown session")
	case errors.Is(err, session.ErrTurnInFlight):
		writeError(w, http.StatusConflict, "turn_in_flight", "a turn is already being processed")
	case errors.Is(err, usecase.ErrNoPendingProposal):
		writeError(w, http.StatusNotFound, "no_pending_proposal", "no proposal is staged")
	default:
		errutil.Handle(r.Context(), err, "unhandled error in HTTP handler")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

type sessionResponse struct {
	SessionID model.SessionID `json:"sessionId"`
	Mode      types.Mode      `json:"mode"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "invalid request body")
		return
	}

	mode := types.ModeAuto
	if req.Mode != "" {
		parsed, err := types.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, "input_error", "invalid mode")
			return
		}
		mode = parsed
	}

	snap := s.uc.Sessions().Create(mode)
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: snap.ID, Mode: snap.Mode})
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(chi.URLParam(r, "sessionID"))
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	snap, err := s.uc.Sessions().Get(sessionID(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": snap.Messages,
	})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "invalid request body")
		return
	}

	mode, err := types.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "invalid mode")
		return
	}

	if err := s.uc.Sessions().SetMode(sessionID(r), mode); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID(r), Mode: mode})
}

func (s *Server) handleUpdateTranscript(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transcript string `json:"transcript"`
		Source     string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "invalid request body")
		return
	}

	source := types.MessageSourceVoice
	if req.Source != "" {
		parsed, err := types.ParseMessageSource(req.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, "input_error", "invalid source")
			return
		}
		source = parsed
	}

	if err := s.uc.Sessions().UpdateTranscript(sessionID(r), req.Transcript, source); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode       string `json:"mode"`
		Transcript string `json:"transcript"`
		Source     string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "invalid request body")
		return
	}

	id := sessionID(r)

	// A mode in the request switches the session mode before the turn and
	// persists afterwards.
	if req.Mode != "" {
		mode, err := types.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, "input_error", "invalid mode")
			return
		}
		if err := s.uc.Sessions().SetMode(id, mode); err != nil {
			writeUsecaseError(w, r, err)
			return
		}
	}

	source := types.MessageSourceText
	if req.Source != "" {
		parsed, err := types.ParseMessageSource(req.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, "input_error", "invalid source")
			return
		}
		source = parsed
	}

	result, err := s.uc.Dialogue.RunTurn(r.Context(), id, req.Transcript, source)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := s.uc.Proposal.Current(r.Context(), sessionID(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

type memoryResponse struct {
	ID          model.MemoryID   `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	HappenedOn  string           `json:"happenedOn"`
	People      []string         `json:"people,omitempty"`
	Importance  types.Importance `json:"importance"`
	Provenance  types.Provenance `json:"provenance"`
	CreatedAt   string           `json:"createdAt"`
}

func toMemoryResponse(m *model.Memory) memoryResponse {
	return memoryResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		HappenedOn:  m.HappenedOn.Format("2006-01-02"),
		People:      m.People,
		Importance:  m.Importance,
		Provenance:  m.Provenance,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleConfirmProposal(w http.ResponseWriter, r *http.Request) {
	mem, err := s.uc.Proposal.Confirm(r.Context(), sessionID(r))
	if err != nil {
		if errors.Is(err, usecase.ErrNoPendingProposal) || errors.Is(err, session.ErrNotFound) {
			writeUsecaseError(w, r, err)
			return
		}
		// Store failure: the proposal is kept so the user can retry.
		writeError(w, http.StatusBadGateway, "store_error", "could not save the memory, please try again")
		return
	}
	writeJSON(w, http.StatusCreated, toMemoryResponse(mem))
}

func (s *Server) handleDismissProposal(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Proposal.Dismiss(r.Context(), sessionID(r)); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		DateLabel   string   `json:"dateLabel"`
		People      []string `json:"people"`
		Importance  string   `json:"importance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "invalid request body")
		return
	}

	mem, err := s.uc.Memory.CreateManual(r.Context(), usecase.ManualMemoryInput{
		Title:       req.Title,
		Description: req.Description,
		DateLabel:   types.DateLabel(req.DateLabel),
		People:      req.People,
		Importance:  types.Importance(req.Importance),
	})
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemoryResponse(mem))
}

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "input_error", "invalid limit")
			return
		}
		limit = parsed
	}

	memories, err := s.uc.Memory.List(r.Context(), limit)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	resp := make([]memoryResponse, len(memories))
	for i, m := range memories {
		resp[i] = toMemoryResponse(m)
	}
	writeJSON(w, http.StatusOK, map[string]any{"memories": resp})
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	mem, err := s.uc.Memory.Get(r.Context(), model.MemoryID(chi.URLParam(r, "memoryID")))
	if err != nil {
		writeError(w, http.StatusNotFound, "memory_not_found", "unknown memory")
		return
	}
	writeJSON(w, http.StatusOK, toMemoryResponse(mem))
}
