package weather

import (
	"fmt"
	"math"
)

// NewSnapshot builds the display snapshot from a successful reading.
// A reading without any condition entry is malformed.
func NewSnapshot(r Reading) (Snapshot, error) {
	if len(r.IconCodes) == 0 {
		return Snapshot{}, &FetchError{
			Kind: FailureMalformed,
			Err:  fmt.Errorf("response for %q has no weather conditions", r.Name),
		}
	}

	return Snapshot{
		Humidity:    r.Humidity,
		WindSpeed:   r.WindSpeed,
		Temperature: int(math.Round(r.Temperature)),
		Location:    r.Name,
		Icon:        ResolveIcon(r.IconCodes[0]),
	}, nil
}
