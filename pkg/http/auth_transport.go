package http

import "net/http"

// authTransport adds a bearer token to outgoing requests. The request is
// cloned so the shared transport chain never mutates a caller's request.
type authTransport struct {
	token     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set("Authorization", "Bearer "+t.token)
	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken authenticates every request with the provider token.
// An empty token leaves the transport chain untouched so mock and
// keyless upstreams see no Authorization header at all.
func WithAuthToken(token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		if token == "" {
			return rt
		}
		return &authTransport{
			token:     token,
			transport: rt,
		}
	})
}
