package templates

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/i18ncheck/i18ncheck/pkg/checker"
)

// The embedded catalog must define display text for every id+severity
// pair the rule catalog can emit; a miss is a startup configuration
// error, so catch it here rather than in production.
func TestEmbeddedCatalogCoversRuleCatalog(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	var pairs []Pair
	for _, p := range checker.EmittablePairs() {
		pairs = append(pairs, Pair{ID: p.ID, Severity: string(p.Severity)})
	}
	require.NotEmpty(t, pairs)
	require.NoError(t, r.Validate(pairs))
}
