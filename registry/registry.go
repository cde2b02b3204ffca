package registry

import (
	"github.com/herbertavetisyan/vist0s/config"
)

// BuildAdapters assembles the ordered registry sequence from configuration.
// Mock mode swaps every adapter for its deterministic in-process stand-in.
func BuildAdapters(cfg config.EnrichmentConfig) []ServiceAdapter {
	if cfg.MockMode {
		return []ServiceAdapter{
			NewMockAdapter(ServiceNorq, 1),
			NewMockAdapter(ServiceEkeng, 2),
			NewMockAdapter(ServiceAcra, 3),
			NewMockAdapter(ServiceDms, 4),
		}
	}

	return []ServiceAdapter{
		NewHTTPAdapter(ServiceNorq, 1, cfg.Norq),
		NewHTTPAdapter(ServiceEkeng, 2, cfg.Ekeng),
		NewHTTPAdapter(ServiceAcra, 3, cfg.Acra),
		NewHTTPAdapter(ServiceDms, 4, cfg.Dms),
	}
}
