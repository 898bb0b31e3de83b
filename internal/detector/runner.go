package detector

import (
	"context"

	"github.com/example/binsentry/internal/binary"
	"github.com/example/binsentry/internal/result"
)

// Finding pairs a detector's identity with the outcome of one analyze call.
// Err is set when the detector could not complete its scan; Result is always
// non-nil and default-safe in that case.
type Finding struct {
	Detector string
	Result   *result.Result
	Err      error
}

// Run executes detectors sequentially against the binary. A failing detector
// is recorded in its Finding and does not stop the remaining detectors. On
// context cancellation the findings gathered so far are returned along with
// the context error.
func Run(ctx context.Context, detectors []Detector, bin *binary.File) ([]Finding, error) {
	if len(detectors) == 0 || bin == nil {
		return nil, nil
	}

	var findings []Finding
	for _, d := range detectors {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		res, err := d.Analyze(bin)
		if res == nil {
			res = result.New()
		}
		findings = append(findings, Finding{Detector: d.ID(), Result: res, Err: err})
	}

	return findings, nil
}
