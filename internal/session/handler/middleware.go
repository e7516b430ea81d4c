package handler

import (
	"net/http"

	"github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/internal/session/service"
	"github.com/narwhalmedia/reelscout/pkg/auth"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/logger"
	"github.com/narwhalmedia/reelscout/pkg/utils"
)

// RequireSession rejects requests without a valid bearer token and puts the
// resolved session in the request context.
func RequireSession(svc service.AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r)
			if err != nil {
				utils.ErrorResponse(w, r, errors.Mask(errors.ErrorTypeUnauthorized, err.Error(), err))
				return
			}

			session, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				utils.ErrorResponse(w, r, err)
				return
			}

			ctx := domain.ContextWithSession(r.Context(), session)
			ctx = logger.WithFields(ctx, interfaces.String("session_id", session.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
