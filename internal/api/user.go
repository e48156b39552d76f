package api

import "net/http"

// userHeader identifies the acting user. Absent header means the configured
// default user; profiles are created on first contact.
const userHeader = "X-User-ID"

func resolveUser(r *http.Request, defaultUser string) string {
	if v := r.Header.Get(userHeader); v != "" {
		return v
	}
	return defaultUser
}
