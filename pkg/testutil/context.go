package testutil

import (
	"net/http"

	"bankeu/pkg/domain"
	"bankeu/pkg/requestcontext"
)

// WithActor adds the caller to the request context, as the auth middleware
// does for requests bearing a valid token.
func WithActor(req *http.Request, actor domain.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}
