package middleware

import "context"

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyOperator  ctxKey = "operator"
)

func withRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, reqID)
}

// GetRequestID returns the id set by RequestID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	return reqID
}

// GetOperator returns the authenticated operator email, if any.
func GetOperator(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ctxKeyOperator).(string)
	return email, ok && email != ""
}
