package command

import (
	"context"
	"strings"

	featuregate "github.com/goliatone/go-featuregate/gate"
)

const (
	// FeatureRequestsIntake gates public request submission.
	FeatureRequestsIntake = "requests.intake"
	// FeatureRequestsExport gates the CSV export surface.
	FeatureRequestsExport = "requests.export"
)

// FeatureEnabled consults the gate for the given key, scoping the decision to
// the email when one is supplied. A nil gate enables everything.
func FeatureEnabled(ctx context.Context, gate featuregate.FeatureGate, key, email string) (bool, error) {
	if gate == nil {
		return true, nil
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeChain(featuregate.ScopeChain{
		{Kind: featuregate.ScopeUser, ID: email},
		{Kind: featuregate.ScopeSystem},
	}))
}
