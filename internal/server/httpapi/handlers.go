package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mpolonsky/userauth/internal/reject"
)

// sessionCookie carries the credential between requests. The core treats the
// value as an uninterpreted string; naming and attributes are owned here.
const sessionCookie = "ua_session"

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, reject.NewBadRequest("malformed form body"))
		return
	}
	displayID := r.PostFormValue("display_id")
	name := r.PostFormValue("name")
	password := r.PostFormValue("password")
	if displayID == "" || password == "" {
		s.writeError(w, r, reject.NewBadRequest("display_id and password are required"))
		return
	}

	user, err := s.registry.Register(ctx, displayID, name, password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "display_id", user.DisplayID)
	http.Redirect(w, r, s.prefix+"login.html", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, reject.NewBadRequest("malformed form body"))
		return
	}
	displayID := r.PostFormValue("display_id")
	password := r.PostFormValue("password")

	credential, err := s.sessions.Login(ctx, displayID, password)
	if err != nil {
		// An unknown display id and a wrong password both read as a plain
		// 401 so the endpoint cannot be used to enumerate users.
		if reject.IsKind(err, reject.NotFound) {
			err = reject.NewUnauthorized("unauthorized")
		}
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    credential,
		Path:     s.prefix,
		HttpOnly: true,
	})
	http.Redirect(w, r, s.prefix+"me.html", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		s.writeError(w, r, reject.NewUnauthorized("unauthorized"))
		return
	}

	if err := s.sessions.Logout(ctx, cookie.Value); err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     s.prefix,
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, s.prefix, http.StatusSeeOther)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		s.writeError(w, r, reject.NewUnauthorized("unauthorized"))
		return
	}

	user, err := s.sessions.Me(ctx, cookie.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, user)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.registry.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, users)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, "pong")
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "error encoding response", "error", err.Error())
	}
}

// writeError translates a failure into a response. Rejects map onto their
// status with the client-safe message; everything else logs server-side and
// leaves the client with a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	if kind, ok := reject.KindOf(err); ok {
		s.logger.Info(ctx, "request rejected", "kind", kind.String(), "path", r.URL.Path)
		http.Error(w, err.Error(), statusOf(kind))
		return
	}

	s.logger.Error(ctx, "internal error", "path", r.URL.Path, "error", err.Error())
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func statusOf(kind reject.Kind) int {
	switch kind {
	case reject.Unauthorized:
		return http.StatusUnauthorized
	case reject.BadRequest:
		return http.StatusBadRequest
	case reject.NotFound:
		return http.StatusNotFound
	case reject.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
