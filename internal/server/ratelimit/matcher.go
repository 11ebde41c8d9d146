package ratelimit

import "net/http"

// unlimitedRoutes make no LLM call and never consume tokens
var unlimitedRoutes = map[string]bool{
	http.MethodGet + " /health": true,
}

// MatchEndpoint returns the tier for method and path, or nil when the default tier applies.
// Tiers match the route exactly; "/api/parse" does not cover "/api/parse-pdf".
// CORS preflights and the routes in unlimitedRoutes get a zero-limit (unlimited) tier.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || unlimitedRoutes[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}
	return nil
}
