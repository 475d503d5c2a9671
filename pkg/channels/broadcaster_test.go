package channels_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/breathe/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	seq    int
	radius float64
}

func frames(n int) []frame {
	out := make([]frame, n)
	for i := range out {
		out[i] = frame{seq: i + 1, radius: 25 + float64(i)}
	}
	return out
}

// publish sends every frame, then shuts the broadcaster down and waits for
// the drain so subscriber channels hold everything that was delivered.
func publish(t *testing.T, b *channels.Broadcaster[frame], cancel context.CancelFunc, input chan<- frame, fs []frame) {
	t.Helper()

	for _, f := range fs {
		input <- f
	}
	cancel()
	b.Wait()
}

func start(t *testing.T, b *channels.Broadcaster[frame]) (chan<- frame, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	input, err := b.Run(ctx)
	require.NoError(t, err)

	return input, cancel
}

func TestBroadcaster_SubscribeValidation(t *testing.T) {
	t.Parallel()

	b := channels.NewBroadcaster[frame]()

	require.ErrorContains(t, b.Subscribe(nil), "cannot be nil")
	require.ErrorContains(t, b.SubscribeWithTimeout(nil, time.Second), "cannot be nil")

	for _, timeout := range []time.Duration{0, -time.Millisecond} {
		err := b.SubscribeWithTimeout(make(chan frame, 1), timeout)
		require.ErrorContains(t, err, "must be positive", "timeout %s", timeout)
	}

	assert.Zero(t, b.Len())
}

func TestBroadcaster_RunOnce(t *testing.T) {
	t.Parallel()

	b := channels.NewBroadcaster[frame]()
	start(t, b)

	_, err := b.Run(context.Background())
	require.ErrorContains(t, err, "already started")
}

func TestBroadcaster_FansOutInOrder(t *testing.T) {
	t.Parallel()

	b := channels.NewBroadcaster[frame]()
	viewer := make(chan frame, 8)
	recorder := make(chan frame, 8)
	require.NoError(t, b.Subscribe(viewer))
	require.NoError(t, b.SubscribeWithTimeout(recorder, time.Second))

	input, cancel := start(t, b)
	publish(t, b, cancel, input, frames(4))

	assert.Equal(t, frames(4), channels.ReceiveAll(viewer, 10*time.Millisecond, 0))
	assert.Equal(t, frames(4), channels.ReceiveAll(recorder, 10*time.Millisecond, 0))
	assert.Equal(t, []channels.SubscriberStats{{}, {}}, b.Stats())
}

func TestBroadcaster_NoSubscribers(t *testing.T) {
	t.Parallel()

	b := channels.NewBroadcaster[frame]()
	input, cancel := start(t, b)
	publish(t, b, cancel, input, frames(2))

	assert.Empty(t, b.Stats())
}

func TestBroadcaster_StalledSubscribers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		subscribe func(b *channels.Broadcaster[frame], ch chan frame) error
	}{
		{
			name:      "non-blocking",
			subscribe: func(b *channels.Broadcaster[frame], ch chan frame) error { return b.Subscribe(ch) },
		},
		{
			name: "send timeout",
			subscribe: func(b *channels.Broadcaster[frame], ch chan frame) error {
				return b.SubscribeWithTimeout(ch, time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := channels.NewBroadcaster[frame]()
			stalled := make(chan frame)
			ready := make(chan frame, 8)
			require.NoError(t, tt.subscribe(b, stalled))
			require.NoError(t, b.Subscribe(ready))

			input, cancel := start(t, b)
			publish(t, b, cancel, input, frames(3))

			assert.Equal(t, frames(3), channels.ReceiveAll(ready, 10*time.Millisecond, 0),
				"a stalled client does not cost the others frames")
			assert.Equal(t, []channels.SubscriberStats{{Dropped: 3}, {}}, b.Stats())
		})
	}
}

func TestBroadcaster_TimeoutLetsSlowSubscriberCatchUp(t *testing.T) {
	t.Parallel()

	b := channels.NewBroadcaster[frame]()
	slow := make(chan frame)
	require.NoError(t, b.SubscribeWithTimeout(slow, time.Second))

	got := make(chan []frame, 1)
	go func() {
		var seen []frame
		for f := range slow {
			time.Sleep(2 * time.Millisecond)
			seen = append(seen, f)
			if len(seen) == 3 {
				break
			}
		}
		got <- seen
	}()

	input, cancel := start(t, b)
	publish(t, b, cancel, input, frames(3))

	assert.Equal(t, frames(3), <-got)
	assert.Equal(t, []channels.SubscriberStats{{}}, b.Stats())
}

func TestBroadcaster_ClosedSubscriberGoesInactive(t *testing.T) {
	t.Parallel()

	b := channels.NewBroadcaster[frame]()
	gone := make(chan frame, 8)
	close(gone)
	open := make(chan frame, 8)
	require.NoError(t, b.Subscribe(gone))
	require.NoError(t, b.Subscribe(open))

	input, cancel := start(t, b)
	publish(t, b, cancel, input, frames(2))

	assert.Equal(t, []channels.SubscriberStats{{Dropped: 2, Inactive: true}, {}}, b.Stats())
	assert.Len(t, channels.ReceiveAll(open, 10*time.Millisecond, 0), 2)
}

func TestBroadcaster_JoinAndLeaveWhileRunning(t *testing.T) {
	t.Parallel()

	b := channels.NewBroadcaster[frame]()
	input, cancel := start(t, b)

	early := make(chan frame, 8)
	late := make(chan frame, 8)
	require.NoError(t, b.Subscribe(early))
	require.NoError(t, b.Subscribe(late))
	assert.Equal(t, 2, b.Len())

	fs := frames(2)
	input <- fs[0]
	require.Eventually(t, func() bool { return len(early) == 1 }, time.Second, time.Millisecond)

	assert.True(t, b.Unsubscribe(early))
	assert.False(t, b.Unsubscribe(early))
	assert.Equal(t, 1, b.Len())

	publish(t, b, cancel, input, fs[1:])

	assert.Equal(t, fs[:1], channels.ReceiveAll(early, 10*time.Millisecond, 0))
	assert.Equal(t, fs, channels.ReceiveAll(late, 10*time.Millisecond, 0))
}
