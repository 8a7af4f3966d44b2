package usecase

import (
	"strings"

	"github.com/agencydesk/crm-api/internal/entity"
)

// CarrierMatch is the result of resolving a free-text carrier name.
// WasConverted means the text matched no canonical name or alias and was
// passed through verbatim, flagged for operator review.
type CarrierMatch struct {
	StandardizedName string
	WasConverted     bool
}

// NormalizeCarrier resolves raw against the carrier catalog: case-insensitive
// exact match on the canonical name first, then on each alias. The catalog is
// loaded ORDER BY name, so first match wins deterministically; alias
// collisions across carriers are a data-integrity violation to prevent at
// write time, not arbitrated here.
func NormalizeCarrier(raw string, catalog []entity.Carrier) CarrierMatch {
	trimmed := strings.TrimSpace(raw)
	lowered := strings.ToLower(trimmed)

	for _, carrier := range catalog {
		if strings.ToLower(carrier.Name) == lowered {
			return CarrierMatch{StandardizedName: carrier.Name}
		}
		for _, alias := range carrier.Aliases {
			if strings.ToLower(strings.TrimSpace(alias)) == lowered {
				return CarrierMatch{StandardizedName: carrier.Name}
			}
		}
	}

	return CarrierMatch{StandardizedName: trimmed, WasConverted: true}
}
