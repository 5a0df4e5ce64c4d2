package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/openkraft/pluginpipe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvergenceOutcome_JSON(t *testing.T) {
	o := &domain.ConvergenceOutcome{
		Kind:           domain.OutcomeBlockedStructural,
		FailingPlugins: []string{"alpha"},
		Iterations:     2,
		Commits:        1,
	}
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"BlockedStructural","failing_plugins":["alpha"],"iterations":2,"commits":1}`, string(data))
	assert.False(t, o.Succeeded())
}

func TestNewRunRecord(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := domain.NewRunRecord(&domain.ConvergenceOutcome{Kind: domain.OutcomeSuccess, Iterations: 1}, "abc1234", at)
	assert.Equal(t, "Success", r.Outcome)
	assert.Equal(t, "abc1234", r.CommitHash)
	assert.Equal(t, at, r.Timestamp)
}
