// Package ws is the connection handler: it upgrades authenticated
// requests to websockets and bridges each socket to the hub.
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sourcefab/rfq-hub-go/internal/audit"
	"github.com/sourcefab/rfq-hub-go/internal/auth"
	"github.com/sourcefab/rfq-hub-go/internal/httputil"
	"github.com/sourcefab/rfq-hub-go/internal/hub"
)

type Handler struct {
	hub       *hub.Hub
	validator *auth.TokenValidator
	upgrader  websocket.Upgrader
}

func NewHandler(h *hub.Hub, validator *auth.TokenValidator, allowedOrigins []string) *Handler {
	return &Handler{
		hub:       h,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker allows every origin when the list is empty, otherwise
// only exact matches.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

// ServeHTTP validates the bearer credential before upgrading: the
// request-level auth middleware does not cover the upgrade path, so a
// bad token is rejected here and no hub command is ever issued for it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := auth.ExtractToken(r)
	user, err := h.validator.Validate(r.Context(), token)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventWSAuthFailure})
		httputil.WriteError(w, err)
		return
	}

	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade wrote its own error response.
		log.Warn().Err(err).Int64("userId", user.ID).Msg("websocket upgrade failed")
		return
	}

	log.Info().Int64("userId", user.ID).Str("remoteAddr", r.RemoteAddr).Msg("websocket connected")

	// The pumps outlive the request context once the socket is hijacked;
	// their lifetime is bound to the socket itself.
	newConn(sock, h.hub, user).serve(r.Context())
}
