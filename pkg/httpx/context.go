package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeySubject ctxKey = "subject"
)

// WithSubject stores the authenticated user id and the decoded session
// subject in ctx.
func WithSubject(ctx context.Context, userID string, subject any) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	return context.WithValue(ctx, CtxKeySubject, subject)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}

// SubjectFromContext returns the session subject stored by AuthnMiddleware.
func SubjectFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(CtxKeySubject).(T)
	return v, ok
}
