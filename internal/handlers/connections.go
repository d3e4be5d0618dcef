package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SanjanaSK25/Career-Connect/internal/logging"
	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

// ConnectionHandler manages the directed connection-request workflow between
// members. A request is a permanent record: responding resolves it in place
// and nothing ever deletes it.
type ConnectionHandler struct {
	Users       UserStore
	Sessions    SessionResolver
	Connections ConnectionStore
	NowFunc     func() time.Time
}

// Request handles POST /api/v1/connections/request. At most one request may
// ever exist per ordered requester/target pair, regardless of its state.
func (h ConnectionHandler) Request(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	var req connectionRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid connection request payload", "error", err, "userId", caller.ID)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.TargetID = strings.TrimSpace(req.TargetID)
	if req.TargetID == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "targetId is required")
		return
	}
	if req.TargetID == caller.ID {
		respondMessage(ctx, w, http.StatusBadRequest, "cannot connect with yourself")
		return
	}

	if _, err := h.Users.FindByID(ctx, req.TargetID); err != nil {
		respondStoreError(ctx, w, err, "user not found", "")
		return
	}

	record := models.ConnectionRequest{
		ID:        uuid.NewString(),
		Requester: caller.ID,
		Target:    req.TargetID,
		CreatedAt: h.now(),
	}
	if err := h.Connections.CreateRequest(ctx, record); err != nil {
		respondStoreError(ctx, w, err, "user not found", "request already sent")
		return
	}

	logger.Info("connection request created", "requestId", record.ID, "requesterId", caller.ID, "targetId", req.TargetID)
	respondData(ctx, w, http.StatusCreated, record)
}

// Incoming handles GET /api/v1/connections/incoming, listing every request
// addressed to the caller alongside the requester's public fields.
func (h ConnectionHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Connections.ListIncoming)
}

// Outgoing handles GET /api/v1/connections/outgoing, listing every request
// the caller has sent alongside the target's public fields.
func (h ConnectionHandler) Outgoing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Connections.ListOutgoing)
}

func (h ConnectionHandler) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, userID string) ([]models.ConnectionView, error)) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	views, err := fetch(ctx, caller.ID)
	if err != nil {
		respondServerFault(ctx, w, err)
		return
	}
	if views == nil {
		views = []models.ConnectionView{}
	}
	respondData(ctx, w, http.StatusOK, views)
}

// Respond handles POST /api/v1/connections/respond. Only the request's
// target may respond, and only while the request is still pending. The
// "accept" action resolves it as accepted; any other action, including an
// absent one, rejects it.
func (h ConnectionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, err := authenticate(r, h.Sessions, h.Users)
	if err != nil {
		respondAuthError(ctx, w, err)
		return
	}

	var req connectionResponsePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid connection response payload", "error", err, "userId", caller.ID)
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.RequestID == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "requestId is required")
		return
	}

	record, err := h.Connections.FindByID(ctx, req.RequestID)
	if err != nil {
		respondStoreError(ctx, w, err, "request not found", "")
		return
	}
	if record.Target != caller.ID {
		logger.Warn("connection respond by non-target", "requestId", record.ID, "userId", caller.ID)
		respondMessage(ctx, w, http.StatusUnauthorized, "not authorized to respond to this request")
		return
	}
	if !record.Pending() {
		respondMessage(ctx, w, http.StatusBadRequest, "request already resolved")
		return
	}

	accepted := req.Action == "accept"
	if err := h.Connections.SetOutcome(ctx, record.ID, accepted); err != nil {
		respondStoreError(ctx, w, err, "request not found", "")
		return
	}

	logger.Info("connection request resolved", "requestId", record.ID, "accepted", accepted)
	if accepted {
		respondMessage(ctx, w, http.StatusOK, "request accepted")
		return
	}
	respondMessage(ctx, w, http.StatusOK, "request rejected")
}

type connectionRequestPayload struct {
	TargetID string `json:"targetId"`
}

type connectionResponsePayload struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
}

func (h ConnectionHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
