package render

import (
	"time"

	"github.com/goliatone/go-parecer/pkg/imaging"
)

// DefaultCity is the signature locality used when the record has no city.
const DefaultCity = "Mogi das Cruzes"

// RenderOptions carry per-request settings that do not belong to the record.
type RenderOptions struct {
	// Date is the signature date. The zero value is replaced by the
	// generator's clock before composing.
	Date time.Time
	// DefaultCity overrides the fallback locality for records without a city.
	DefaultCity string
	// Images controls how attached images are prepared for embedding.
	Images imaging.Options
}

func (o RenderOptions) fallbackCity() string {
	if o.DefaultCity != "" {
		return o.DefaultCity
	}
	return DefaultCity
}
