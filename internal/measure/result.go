package measure

import (
	"encoding/json"
	"fmt"
	"math"
)

// Result is one peak-memory reading, decorated with the target name and
// depth it was measured at. Extra carries any additional fields the
// helper emitted; they are passed through opaquely and never
// interpreted.
type Result struct {
	Language string
	Depth    int
	PeakMB   float64
	Extra    map[string]any
}

// parseResultFile decodes the helper's result object. The only
// required field is peak_mb, a non-negative number in megabytes.
func parseResultFile(data []byte) (float64, map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return 0, nil, fmt.Errorf("result is not a JSON object: %w", err)
	}

	raw, ok := fields["peak_mb"]
	if !ok {
		return 0, nil, fmt.Errorf("result lacks required field peak_mb")
	}
	peak, ok := raw.(float64)
	if !ok {
		return 0, nil, fmt.Errorf("peak_mb is %T, want a number", raw)
	}
	if math.IsNaN(peak) || peak < 0 {
		return 0, nil, fmt.Errorf("peak_mb is %v, want a non-negative number", peak)
	}

	delete(fields, "peak_mb")
	return peak, fields, nil
}
