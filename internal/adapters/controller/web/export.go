package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	session, img, status, err := s.currentImage(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	file, err := s.exportService.Export(r.Context(), session.State().ProfileID, entity.ChannelDownload, img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

type mailRequest struct {
	To string `json:"to"`
}

func (s *Server) handleMail(w http.ResponseWriter, r *http.Request) {
	var req mailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	addr, err := mail.ParseAddress(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be an e-mail address")
		return
	}

	session, img, status, err := s.currentImage(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	file, err := s.exportService.Mail(r.Context(), session.State().ProfileID, addr.Address, img)
	switch {
	case errors.Is(err, errorz.ErrMailDisabled):
		writeError(w, http.StatusNotImplemented, err.Error())
		return
	case err != nil:
		s.logger.Errorf("(session: %s) mail export failed: %v", session.State().SessionID, err)
		writeError(w, http.StatusBadGateway, "failed to send e-mail")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent", "filename": file.Filename})
}

type historyResponse struct {
	Items []entity.Export `json:"items"`
	Total int64           `json:"total"`
}

func (s *Server) handleExports(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(profileCookie)
	if err != nil || c.Value == "" {
		writeJSON(w, http.StatusOK, historyResponse{Items: []entity.Export{}})
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, err := s.exportService.History(r.Context(), c.Value, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.exportService.CountByProfile(r.Context(), c.Value)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []entity.Export{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Items: items, Total: total})
}
