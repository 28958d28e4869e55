package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"territorykeeper/internal/common"
	"territorykeeper/internal/httpapi"
)

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, httpapi.ErrorResponse{Error: msg})
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is reported as an internal error without leaking details.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeError(w, http.StatusConflict, "account already exists")
	case errors.Is(err, common.ErrorInvalidLoginPassword):
		s.writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, common.ErrorInvalidPasswordFormat):
		s.writeError(w, http.StatusBadRequest, "password is too short")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		s.writeError(w, http.StatusUnauthorized, "refresh token expired")
	default:
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, httpapi.PingResponse{Status: "OK"})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req httpapi.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		s.writeServiceError(w, err)
		return
	}

	s.logger.Info(ctx, "Registered", "email", user.Email)
	s.writeJSON(w, http.StatusCreated, httpapi.RegisterResponse{UserID: user.ID})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req httpapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, httpapi.TokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req httpapi.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			s.writeServiceError(w, err)
			return
		}
		s.writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	s.writeJSON(w, http.StatusOK, httpapi.TokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *HTTPServer) handlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	var req httpapi.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	data, err := json.Marshal(req.Record)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed record")
		return
	}

	snapshot, shareURL, err := s.snapshots.Publish(ctx, userID, data)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		s.writeServiceError(w, err)
		return
	}

	s.logger.Info(ctx, "Snapshot published", "share_id", snapshot.ShareID)
	s.writeJSON(w, http.StatusCreated, httpapi.PublishResponse{
		ShareID:  snapshot.ShareID,
		ShareURL: shareURL,
	})
}

func (s *HTTPServer) handleListShares(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	snapshots, err := s.snapshots.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		s.writeServiceError(w, err)
		return
	}

	resp := httpapi.SnapshotListResponse{Snapshots: []httpapi.SnapshotListItem{}}
	for _, snap := range snapshots {
		resp.Snapshots = append(resp.Snapshots, httpapi.SnapshotListItem{
			ShareID:  snap.ShareID,
			SharedAt: snap.SharedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shareID := chi.URLParam(r, "shareID")

	snapshot, err := s.snapshots.Resolve(ctx, shareID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var record httpapi.Snapshot
	if err := json.Unmarshal(snapshot.Data, &record); err != nil {
		s.logger.Error(ctx, err.Error())
		s.writeError(w, http.StatusInternalServerError, "stored snapshot unreadable")
		return
	}

	// The share id, owner and publish time come from the snapshot row,
	// not from whatever the record carried at publish time.
	record.ID = snapshot.ShareID
	record.OwnerID = snapshot.OwnerID
	record.SharedAt = snapshot.SharedAt

	s.writeJSON(w, http.StatusOK, record)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shareID := chi.URLParam(r, "shareID")

	url, err := s.snapshots.ExportURL(ctx, shareID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, httpapi.ExportResponse{URL: url})
}
