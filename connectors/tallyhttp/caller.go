package tallyhttp

import (
	"net/http"

	tally "github.com/tallylabs/tally"
)

// CallerHeader carries the verified caller identity, hex encoded. Whatever
// fronts this service (gateway, sidecar, signature check) is responsible for
// verifying it; the connector only parses and forwards it.
const CallerHeader = "X-Tally-Caller"

func ResolveCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(CallerHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		caller, err := tally.ParseIdentity(header)
		if err != nil {
			http.Error(w, "invalid caller identity", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(tally.WithCaller(r.Context(), caller)))
	})
}
