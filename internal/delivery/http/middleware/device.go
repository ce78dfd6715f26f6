package middleware

import (
	"context"
	"net/http"
	"strings"
)

const deviceIDKey contextKey = "deviceID"

// DeviceIDHeader carries the client's self-assigned device identifier on
// anonymous feedback requests. It feeds the per-device replay guard; an
// absent header simply skips that check.
const DeviceIDHeader = "X-Device-ID"

// SetDeviceID returns a context with the device ID set.
func SetDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey, deviceID)
}

// DeviceIDFromContext returns the submitting device's ID, if one was sent.
func DeviceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}

// DeviceID copies the X-Device-ID header into the request context for the
// feedback handlers downstream.
func DeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(DeviceIDHeader)); id != "" {
			r = r.WithContext(SetDeviceID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
