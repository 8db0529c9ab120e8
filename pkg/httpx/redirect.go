// Package httpx holds the small HTTP plumbing the auth layer shares
// with hosts: redirect construction and a token-bucket rate limiter for
// refresh-heavy endpoints.
package httpx

import (
	"net/http"
	"net/url"
)

// RedirectURL appends a return_to query parameter to path when returnTo
// is non-empty. path is expected to be an application-local path.
func RedirectURL(path, returnTo string) string {
	if returnTo == "" {
		return path
	}

	u, err := url.Parse(path)
	if err != nil {
		return path
	}

	q := u.Query()
	q.Set("return_to", returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}

// Redirect writes a 302 to path, carrying returnTo as a query parameter
// when non-empty. Auth redirects must never be cached.
func Redirect(w http.ResponseWriter, r *http.Request, path, returnTo string) {
	NoCache(w)
	http.Redirect(w, r, RedirectURL(path, returnTo), http.StatusFound)
}

// NoCache sets headers preventing any caching of the response.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
