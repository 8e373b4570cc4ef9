package types

import (
	"os"
	"strings"
)

// ContextUserKey is the gin context key the auth middleware stores the
// authenticated user under.
const ContextUserKey = "user"

// Dev origins for the Vite client.
var devOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// AllowedOrigins is the origin allowlist shared by the CORS middleware and
// the websocket upgrade check: the dev defaults plus CLIENT_URL and the
// comma-separated ALLOWED_ORIGINS list.
var AllowedOrigins = buildAllowedOrigins(os.Getenv("CLIENT_URL"), os.Getenv("ALLOWED_ORIGINS"))

func buildAllowedOrigins(clientURL, extra string) []string {
	origins := append([]string(nil), devOrigins...)

	if clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(extra, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
