package http

import (
	"context"
	"net/http"

	apierrors "acadpulse/internal/errors"
	"acadpulse/internal/middleware"
	"acadpulse/internal/profiles"
	api "acadpulse/pkg/contracts/api/v1"
)

type contextKey string

const studentIDKey contextKey = "student_id"

// StudentCtx validates the {id} path parameter and stores its canonical
// form in the request context
func StudentCtx(v *middleware.Validator, errorHandler *apierrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := api.ReportRequest{StudentID: unescapeParam(r, "id")}
			if err := v.ValidateStruct(req); err != nil {
				errorHandler.HandleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), studentIDKey, profiles.CanonicalID(req.StudentID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StudentIDFromContext returns the id stored by StudentCtx
func StudentIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(studentIDKey).(string)
	return id
}
