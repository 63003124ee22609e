package search

import (
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/config"
)

// Build maps configuration to concrete backends. A backend that cannot be
// built (unknown name, missing credential) is reported in errs but does not
// block the rest of the rotation; the caller decides whether zero backends
// is fatal.
func Build(cfg config.SearchConfig, client *http.Client) (backends []Backend, errs []error) {
	for _, name := range cfg.Backends {
		switch name {
		case "google":
			backends = append(backends, NewGoogleBackend(client))
		case "bing":
			backends = append(backends, NewBingBackend(client))
		case "api":
			b, err := NewAPIBackend(cfg.APIKey, cfg.APIBaseURL, client)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			backends = append(backends, b)
		default:
			errs = append(errs, eris.Errorf("search: unknown backend %q", name))
		}
	}
	return backends, errs
}
