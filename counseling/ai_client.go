package counseling

import (
	"context"

	"medcounsel-backend/openai"
)

// Counselor abstracts the generative provider so handlers and the service can
// be unit-tested with a mock. Only the operations this package uses are
// listed.
type Counselor interface {
	GenerateCounseling(ctx context.Context, medicine, lang string) (string, error)
	EstimateInteractions(ctx context.Context, target string, existing []string, lang string) ([]openai.Finding, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
