package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Badsnus/tabqr/internal/domain/common/errorz"
	"github.com/Badsnus/tabqr/internal/domain/entity"
	"github.com/Badsnus/tabqr/internal/domain/service"
	"github.com/google/uuid"
)

const (
	sessionCookie = "tabqr_session"
	profileCookie = "tabqr_profile"
)

// resolveSource returns the text to encode: the u query parameter, else the
// page the popup was opened from when useReferer is set.
func resolveSource(r *http.Request, useReferer bool) (string, error) {
	if u := strings.TrimSpace(r.URL.Query().Get("u")); u != "" {
		return u, nil
	}
	if useReferer {
		if ref := r.Referer(); ref != "" && !sameOrigin(r, ref) {
			return ref, nil
		}
	}
	return "", errorz.ErrSourceResolution
}

// sameOrigin reports whether ref points at this server, i.e. the popup itself.
func sameOrigin(r *http.Request, ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (s *Server) profileID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(profileCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.opts.ProfileTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// newSession ends the popup the request still points at, if any, and issues
// a fresh session id. A logo never carries over into a new popup.
func (s *Server) newSession(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		s.closeSession(r.Context(), c.Value)
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// closeSession forgets the session and drops its logo, also when the session
// is no longer in memory.
func (s *Server) closeSession(ctx context.Context, id string) {
	state, ok := s.sessions.Delete(id)
	if !ok {
		state = entity.PopupState{SessionID: id}
	}
	s.popupService.Close(ctx, state)
}

func (s *Server) dropSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// session returns the open popup of the request.
func (s *Server) session(r *http.Request) (*service.Session, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, errorz.ErrSessionNotFound
	}
	session, ok := s.sessions.Get(c.Value)
	if !ok {
		return nil, errorz.ErrSessionNotFound
	}
	return session, nil
}

// open starts a new popup for text and renders it. A source error is shown
// as the placeholder.
func (s *Server) open(w http.ResponseWriter, r *http.Request, text string, sourceErr error) *service.Session {
	profileID := s.profileID(w, r)
	sessionID := s.newSession(w, r)

	state := s.popupService.Open(r.Context(), sessionID, profileID, text)
	session := s.sessions.Put(state)
	if sourceErr != nil {
		s.popupService.Fail(state, session.Surface, sourceErr)
	} else {
		s.popupService.Render(state, session.Surface, session.Surface.Begin())
	}
	return session
}

// update applies fn to the session state and renders the result. The render
// sequence is reserved together with the state change, so the surface always
// ends on the image of the latest state. When a newer request overtook this
// one, its state is returned along with its frame.
func (s *Server) update(session *service.Session, fn func(entity.PopupState) entity.PopupState) (entity.PopupState, entity.Frame) {
	var seq uint64
	state := session.Update(func(state entity.PopupState) entity.PopupState {
		state = fn(state)
		seq = session.Surface.Begin()
		return state
	})

	frame := s.popupService.Render(state, session.Surface, seq)
	if frame.Seq != seq {
		state = session.State()
	}
	return state, frame
}
