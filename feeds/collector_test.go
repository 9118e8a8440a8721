package feeds

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeed struct {
	name   string
	events []Event
	err    error
	calls  atomic.Int32
}

func (f *stubFeed) Name() string { return f.name }

func (f *stubFeed) Fetch(ctx context.Context) ([]Event, error) {
	f.calls.Add(1)
	return f.events, f.err
}

func TestNewCollector(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := NewCollector([]Feed{&stubFeed{name: "a"}}, WithPoolSize(2), WithLogger(nil))
		require.NoError(t, err)
		c.Release()
	})

	t.Run("nil feed", func(t *testing.T) {
		_, err := NewCollector([]Feed{nil})
		assert.Error(t, err)
	})
}

func TestCollector_Collect(t *testing.T) {
	storms := &stubFeed{name: "storms", events: []Event{{Title: "Ernesto", Kind: KindStorm}}}
	fires := &stubFeed{name: "fires", events: []Event{{Title: "Park Fire", Kind: KindWildfire}, {Title: "Line Fire", Kind: KindWildfire}}}

	c, err := NewCollector([]Feed{storms, fires}, WithPoolSize(2))
	require.NoError(t, err)
	defer c.Release()

	events, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Ernesto", events[0].Title)
	assert.Equal(t, "Park Fire", events[1].Title)
	assert.Equal(t, "Line Fire", events[2].Title)
}

func TestCollector_FailingFeedContributesNothing(t *testing.T) {
	boom := errors.New("boom")
	ok := &stubFeed{name: "ok", events: []Event{{Title: "Ernesto", Kind: KindStorm}}}
	bad := &stubFeed{name: "bad", events: []Event{{Title: "partial"}}, err: boom}

	c, err := NewCollector([]Feed{bad, ok})
	require.NoError(t, err)
	defer c.Release()

	events, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "feed bad")
	require.Len(t, events, 1)
	assert.Equal(t, "Ernesto", events[0].Title)
	assert.Equal(t, int32(1), bad.calls.Load(), "failed feeds are not retried")
}

func TestCollector_NoFeeds(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	defer c.Release()

	events, err := c.Collect(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestSeedQueries(t *testing.T) {
	events := []Event{
		{Title: "Ernesto", Kind: KindStorm},
		{Title: "Gilma", Kind: KindStorm},
		{Title: "Park Fire", Kind: KindWildfire},
		{Title: "Mystery", Kind: Kind("volcano")},
	}

	preset := SeedQueries(events, DefaultQueries())
	assert.Equal(t, SeedPresetName, preset.Name)
	assert.Equal(t, []string{"shelter", "hospital", "evacuation", "fire station"}, preset.Queries)
}

func TestSeedQueries_NoEvents(t *testing.T) {
	preset := SeedQueries(nil, DefaultQueries())
	assert.Empty(t, preset.Queries)
}
