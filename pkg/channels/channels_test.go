package channels_test

import (
	"testing"
	"time"

	"github.com/alkime/breathe/pkg/channels"
	"github.com/stretchr/testify/assert"
)

func TestSend(t *testing.T) {
	t.Parallel()

	type sender func(ch chan<- int, v int) error

	nonBlock := func(ch chan<- int, v int) error { return channels.SendNonBlock(ch, v) }
	withTimeout := func(ch chan<- int, v int) error {
		return channels.SendWithTimeout(ch, v, 50*time.Millisecond)
	}

	tests := []struct {
		name    string
		send    sender
		channel func() chan int
		reader  bool
		wantErr error
	}{
		{"non-blocking with room", nonBlock, buffered(1, 0), false, nil},
		{"non-blocking full", nonBlock, buffered(1, 1), false, channels.ErrChannelFull},
		{"non-blocking unbuffered", nonBlock, buffered(0, 0), false, channels.ErrChannelFull},
		{"non-blocking closed", nonBlock, closed(1), false, channels.ErrChannelClosed},
		{"timeout with room", withTimeout, buffered(1, 0), false, nil},
		{"timeout with reader", withTimeout, buffered(0, 0), true, nil},
		{"timeout full", withTimeout, buffered(1, 1), false, channels.ErrChannelTimeout},
		{"timeout unbuffered", withTimeout, buffered(0, 0), false, channels.ErrChannelTimeout},
		{"timeout closed", withTimeout, closed(1), false, channels.ErrChannelClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ch := tt.channel()
			if tt.reader {
				go func() { <-ch }()
			}

			err := tt.send(ch, 7)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// buffered makes a channel of capacity size holding queued values.
func buffered(size, queued int) func() chan int {
	return func() chan int {
		ch := make(chan int, size)
		for i := range queued {
			ch <- i
		}
		return ch
	}
}

func closed(queued int) func() chan int {
	return func() chan int {
		ch := buffered(queued, queued)()
		close(ch)
		return ch
	}
}

func TestReceiveAll(t *testing.T) {
	t.Parallel()

	t.Run("stops at close", func(t *testing.T) {
		ch := make(chan int, 3)
		ch <- 1
		ch <- 2
		close(ch)
		assert.Equal(t, []int{1, 2}, channels.ReceiveAll(ch, time.Second, 0))
	})

	t.Run("stops at limit", func(t *testing.T) {
		ch := make(chan int, 3)
		ch <- 1
		ch <- 2
		ch <- 3
		assert.Equal(t, []int{1, 2}, channels.ReceiveAll(ch, time.Second, 2))
	})

	t.Run("stops when idle", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 5
		assert.Equal(t, []int{5}, channels.ReceiveAll(ch, 5*time.Millisecond, 0))
	})
}
