package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLog(t *testing.T, h *harness, userID string, typ Type) string {
	t.Helper()
	id, err := h.logs.Write(context.Background(), &LogEntry{
		UserID: userID, Type: typ, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return id
}

func TestEngagementSmoothing(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	logID := seedLog(t, h, "u1", TypePrediction)

	// First open: 0.3·1 + 0.7·0 = 0.3
	require.NoError(t, h.engine.RecordEngagement(ctx, logID, "u1", ActionOpen))
	assert.InDelta(t, 0.3, h.engagements.rates[rateKey{"u1", TypePrediction}], 1e-9)

	// Second open: 0.3·1 + 0.7·0.3 = 0.51
	require.NoError(t, h.engine.RecordEngagement(ctx, logID, "u1", ActionOpen))
	assert.InDelta(t, 0.51, h.engagements.rates[rateKey{"u1", TypePrediction}], 1e-9)

	// Dismiss decays: 0.3·0 + 0.7·0.51 = 0.357
	require.NoError(t, h.engine.RecordEngagement(ctx, logID, "u1", ActionDismiss))
	assert.InDelta(t, 0.357, h.engagements.rates[rateKey{"u1", TypePrediction}], 1e-9)
}

func TestEngagementClickCountsAsReward(t *testing.T) {
	h := newHarness()
	logID := seedLog(t, h, "u1", TypeValueBet)

	require.NoError(t, h.engine.RecordEngagement(context.Background(), logID, "u1", ActionClick))
	assert.InDelta(t, 0.3, h.engagements.rates[rateKey{"u1", TypeValueBet}], 1e-9)
}

func TestEngagementMissingLogIsNoOp(t *testing.T) {
	h := newHarness()

	err := h.engine.RecordEngagement(context.Background(), "nope", "u1", ActionOpen)
	require.NoError(t, err)
	assert.Empty(t, h.engagements.rates)
}

func TestEngagementInvalidAction(t *testing.T) {
	h := newHarness()
	logID := seedLog(t, h, "u1", TypeNews)

	err := h.engine.RecordEngagement(context.Background(), logID, "u1", EngagementAction("shrug"))
	assert.Error(t, err)
}

func TestEngagementFeedsBackIntoScoring(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.addUser("u1", nil)
	logID := seedLog(t, h, "u1", TypeNews)

	require.NoError(t, h.engine.RecordEngagement(ctx, logID, "u1", ActionOpen))

	// Reflect the updated rate into the profile snapshot, as the store does.
	h.profiles.users["u1"].EngagementStats[TypeNews] = h.engagements.rates[rateKey{"u1", TypeNews}]

	r, err := h.engine.SendToUser(ctx, "u1", Event{Type: TypeNews, Payload: map[string]string{"headline": "x"}})
	require.NoError(t, err)
	assert.InDelta(t, 1.6, r.Priority, 1e-9) // base 1 + 2×0.3
}

func TestEngagementConcurrentUpdatesSerialize(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	logID := seedLog(t, h, "u1", TypePrediction)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.engine.RecordEngagement(ctx, logID, "u1", ActionOpen)
		}()
	}
	wg.Wait()

	// n serialized open updates converge to 1-0.7^n regardless of order;
	// a lost update would land below this.
	want := 1.0
	for i := 0; i < n; i++ {
		want *= 0.7
	}
	want = 1 - want
	assert.InDelta(t, want, h.engagements.rates[rateKey{"u1", TypePrediction}], 1e-9)
}
