package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/internal/domain/service"
	qr "github.com/Badsnus/tabqr/pkg/qrcode"
)

type frameResponse struct {
	Seq          uint64 `json:"seq"`
	PNG          string `json:"png,omitempty"`
	Width        int    `json:"width,omitempty"`
	Placeholder  string `json:"placeholder,omitempty"`
	Logo         bool   `json:"logo"`
	LogoDegraded bool   `json:"logoDegraded,omitempty"`
}

type stateResponse struct {
	SessionID   string                     `json:"sessionId"`
	Text        string                     `json:"text"`
	Settings    entity.RenderSettings      `json:"settings"`
	Diagnostics entity.SettingsDiagnostics `json:"diagnostics"`
	Logo        string                     `json:"logo,omitempty"`
	Persisted   *bool                      `json:"persisted,omitempty"`
	Frame       frameResponse              `json:"frame"`
}

func newStateResponse(state entity.PopupState, frame entity.Frame) (stateResponse, error) {
	resp := stateResponse{
		SessionID:   state.SessionID,
		Text:        state.Text,
		Settings:    state.Settings,
		Diagnostics: state.Diagnostics,
		Frame: frameResponse{
			Seq:         frame.Seq,
			Placeholder: frame.Placeholder,
		},
	}
	if state.Logo.Available() {
		resp.Logo = state.Logo.Name
	}
	if frame.Image != nil {
		data, err := qr.EncodePNG(frame.Image.Image)
		if err != nil {
			return stateResponse{}, err
		}
		resp.Frame.PNG = base64.StdEncoding.EncodeToString(data)
		resp.Frame.Width = frame.Image.Image.Bounds().Dx()
		resp.Frame.Logo = frame.Image.Logo
		resp.Frame.LogoDegraded = frame.Image.LogoDegraded
	}
	return resp, nil
}

func (s *Server) writeState(w http.ResponseWriter, state entity.PopupState, frame entity.Frame, persisted *bool) {
	resp, err := newStateResponse(state, frame)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode image")
		return
	}
	resp.Persisted = persisted
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePopupPage(w http.ResponseWriter, r *http.Request) {
	text, err := resolveSource(r, true)
	s.open(w, r, text, err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(popupPageHTML))
}

// handleState returns the open popup. A missing session, or a u parameter
// naming other text than the open popup shows, opens a new one.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	switch {
	case err != nil:
		text, sourceErr := resolveSource(r, false)
		session = s.open(w, r, text, sourceErr)
	case r.URL.Query().Has("u"):
		if text, sourceErr := resolveSource(r, false); sourceErr != nil || text != session.State().Text {
			session = s.open(w, r, text, sourceErr)
		}
	}
	s.writeState(w, session.State(), session.Surface.Current(), nil)
}

type applyRequest struct {
	Text      *string `json:"text,omitempty"`
	Size      *int    `json:"size,omitempty"`
	EC        *string `json:"ec,omitempty"`
	LogoScale *int    `json:"logoScale,omitempty"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req applyRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current := session.State()
	requested := entity.StoredSettings{Size: req.Size, EC: req.EC, LogoScale: req.LogoScale}.Over(current.Settings)
	applied, result := s.popupService.Apply(r.Context(), current, requested)

	state, frame := s.update(session, func(state entity.PopupState) entity.PopupState {
		state.Settings = applied.Settings
		state.Diagnostics = applied.Diagnostics
		if req.Text != nil {
			state.Text = *req.Text
		}
		return state
	})
	s.writeState(w, state, frame, &result.Persisted)
}

func (s *Server) handleSelectLogo(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxLogoBytes+1<<20)
	if err = r.ParseMultipartForm(s.opts.MaxLogoBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.opts.MaxLogoBytes+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read logo")
		return
	}
	if int64(len(data)) > s.opts.MaxLogoBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "logo is too large")
		return
	}

	selected := s.popupService.SelectLogo(r.Context(), session.State(), entity.LogoAsset{Name: header.Filename, Data: data})
	state, frame := s.update(session, func(state entity.PopupState) entity.PopupState {
		state.Logo = selected.Logo
		return state
	})
	s.writeState(w, state, frame, nil)
}

func (s *Server) handleClearLogo(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.popupService.ClearLogo(r.Context(), session.State())
	state, frame := s.update(session, func(state entity.PopupState) entity.PopupState {
		state.Logo = nil
		return state
	})
	s.writeState(w, state, frame, nil)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		s.closeSession(r.Context(), c.Value)
	}
	s.dropSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// currentImage returns the image on display or the reason there is none.
func (s *Server) currentImage(r *http.Request) (*service.Session, *entity.RenderedImage, int, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, nil, http.StatusNotFound, err
	}

	frame := session.Surface.Current()
	if frame.Image == nil {
		if frame.Placeholder != "" {
			return session, nil, http.StatusConflict, errors.New(frame.Placeholder)
		}
		return session, nil, http.StatusConflict, errorz.ErrNothingRendered
	}
	return session, frame.Image, http.StatusOK, nil
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	_, img, status, err := s.currentImage(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	data, err := qr.EncodePNG(img.Image)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode image")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
