package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(status Status, msg string) Check {
	return func(context.Context) ComponentHealth {
		return ComponentHealth{Status: status, Message: msg}
	}
}

func TestRunAllUp(t *testing.T) {
	c := NewChecker()
	c.Register("engine", fixed(StatusUp, "3 documents"))
	c.Register("cache", fixed(StatusUp, ""))

	r := c.Run(context.Background())
	assert.Equal(t, StatusUp, r.Status)
	assert.Equal(t, []string{"cache", "engine"}, r.Names())
	assert.Equal(t, "3 documents", r.Components["engine"].Message)
}

func TestRunWorstStatusWins(t *testing.T) {
	c := NewChecker()
	c.Register("a", fixed(StatusUp, ""))
	c.Register("b", fixed(StatusDegraded, "slow"))
	assert.Equal(t, StatusDegraded, c.Run(context.Background()).Status)

	c.Register("c", fixed(StatusDown, "gone"))
	assert.Equal(t, StatusDown, c.Run(context.Background()).Status)
}

func TestRunMissingStatusIsDown(t *testing.T) {
	c := NewChecker()
	c.Register("silent", func(context.Context) ComponentHealth { return ComponentHealth{} })

	r := c.Run(context.Background())
	require.Contains(t, r.Components, "silent")
	assert.Equal(t, StatusDown, r.Components["silent"].Status)
	assert.Equal(t, StatusDown, r.Status)
}

func TestRunNoChecks(t *testing.T) {
	r := NewChecker().Run(context.Background())
	assert.Equal(t, StatusUp, r.Status)
	assert.Empty(t, r.Names())
}
