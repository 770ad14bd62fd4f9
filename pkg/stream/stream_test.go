package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/pietroski-software-company/golang/devex/random"

	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

func newRecord(userKey any) *record_models.Record {
	return &record_models.Record{
		Key:  record_models.NewKey("test", "users", userKey),
		Bins: record_models.BinMap{"name": random.String(8)},
	}
}

func newRunningStream(t *testing.T, ctx context.Context) *RecordStream {
	t.Helper()

	rs := New(ctx)
	require.Equal(t, Created, rs.State())
	require.True(t, rs.Start())
	require.False(t, rs.Start())
	require.Equal(t, Running, rs.State())

	return rs
}

func TestRecordStream(t *testing.T) {
	t.Run("delivers data in push order then the end", func(t *testing.T) {
		rs := newRunningStream(t, context.Background())

		go func() {
			for idx := 0; idx < 10; idx++ {
				rs.PushData(newRecord(idx))
			}
			rs.PushEnd(mo.None[uint64]())
		}()

		records, payload, err := rs.Collect()
		require.NoError(t, err)
		require.Len(t, records, 10)
		for idx, rec := range records {
			assert.Equal(t, idx, rec.Key.UserKey)
		}
		assert.False(t, payload.IsPresent())
		assert.Equal(t, Completed, rs.State())
	})

	t.Run("end payload carries the scan id", func(t *testing.T) {
		rs := newRunningStream(t, context.Background())

		go rs.PushEnd(mo.Some(uint64(42)))

		records, payload, err := rs.Collect()
		require.NoError(t, err)
		assert.Empty(t, records)
		scanID, ok := payload.Get()
		require.True(t, ok)
		assert.Equal(t, uint64(42), scanID)
	})

	t.Run("error is terminal", func(t *testing.T) {
		rs := newRunningStream(t, context.Background())
		boom := errors.New("boom")

		go func() {
			rs.PushData(newRecord(1))
			rs.PushError(boom)
			rs.PushData(newRecord(2))
			rs.PushEnd(mo.None[uint64]())
			rs.PushError(errors.New("late"))
		}()

		var (
			events []EventType
			errs   []error
		)
		err := rs.Consume(Handlers{
			OnData: func(*record_models.Record) {
				events = append(events, DataEvent)
			},
			OnError: func(err error) {
				events = append(events, ErrorEvent)
				errs = append(errs, err)
			},
			OnEnd: func(mo.Option[uint64]) {
				events = append(events, EndEvent)
			},
		})
		assert.Equal(t, boom, err)
		assert.Equal(t, []EventType{DataEvent, ErrorEvent}, events)
		assert.Equal(t, []error{boom}, errs)
		assert.Equal(t, Failed, rs.State())
		assert.Equal(t, boom, rs.Err())
	})

	t.Run("pushes before start are dropped", func(t *testing.T) {
		rs := New(context.Background())

		assert.False(t, rs.PushData(newRecord(1)))
		assert.False(t, rs.PushEnd(mo.None[uint64]()))
		assert.False(t, rs.PushError(errors.New("boom")))
		assert.Equal(t, Created, rs.State())
	})

	t.Run("abandoned consumer fails the stream", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		rs := newRunningStream(t, ctx)

		done := make(chan bool, 1)
		go func() {
			done <- rs.PushData(newRecord(1))
		}()

		cancel()
		select {
		case delivered := <-done:
			assert.False(t, delivered)
		case <-time.After(time.Second):
			t.Fatal("push never returned")
		}

		assert.Equal(t, Failed, rs.State())
		assert.ErrorIs(t, rs.Err(), context.Canceled)
		assert.False(t, rs.PushEnd(mo.None[uint64]()))

		_, ok := <-rs.Events()
		assert.False(t, ok)
	})
}

func TestRecordStream_Close(t *testing.T) {
	t.Run("releases a blocked push", func(t *testing.T) {
		rs := newRunningStream(t, context.Background())

		done := make(chan bool, 1)
		go func() {
			rs.PushData(newRecord(1))
			done <- rs.PushData(newRecord(2))
		}()

		ev := <-rs.Events()
		require.Equal(t, DataEvent, ev.Type)
		rs.Close()

		select {
		case delivered := <-done:
			assert.False(t, delivered)
		case <-time.After(time.Second):
			t.Fatal("push never returned")
		}

		assert.Equal(t, Failed, rs.State())
		assert.ErrorIs(t, rs.Err(), context.Canceled)
		assert.ErrorIs(t, rs.Context().Err(), context.Canceled)
		assert.False(t, rs.PushEnd(mo.None[uint64]()))

		_, ok := <-rs.Events()
		assert.False(t, ok)

		rs.Close()
	})

	t.Run("closes an idle stream", func(t *testing.T) {
		rs := New(context.Background())
		rs.Close()

		assert.Equal(t, Failed, rs.State())
		assert.False(t, rs.Start())
		_, ok := <-rs.Events()
		assert.False(t, ok)
	})

	t.Run("keeps the outcome of an ended stream", func(t *testing.T) {
		rs := newRunningStream(t, context.Background())
		go rs.PushEnd(mo.Some(uint64(7)))

		_, payload, err := rs.Collect()
		require.NoError(t, err)
		assert.True(t, payload.IsPresent())
		assert.ErrorIs(t, rs.Context().Err(), context.Canceled)

		rs.Close()
		assert.Equal(t, Completed, rs.State())
		assert.NoError(t, rs.Err())
	})
}

// Concurrent producers never interleave data after the terminal event and
// exactly one terminal event is ever observed.
func TestRecordStream_ConcurrentPushes(t *testing.T) {
	for round := 0; round < 20; round++ {
		t.Run(fmt.Sprintf("round %d", round), func(t *testing.T) {
			rs := newRunningStream(t, context.Background())

			producers := int(random.Int(2, 8))
			pushes := int(random.Int(1, 50))
			terminalAfter := random.Int(0, int64(producers*pushes))

			var (
				wg      sync.WaitGroup
				counter sync.Mutex
				pushed  int64
			)
			for p := 0; p < producers; p++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for idx := 0; idx < pushes; idx++ {
						rs.PushData(newRecord(random.String(6)))

						counter.Lock()
						pushed++
						current := pushed
						counter.Unlock()

						if current == terminalAfter {
							if current%2 == 0 {
								rs.PushEnd(mo.None[uint64]())
							} else {
								rs.PushError(errors.New("producer failed"))
							}
						}
					}
				}()
			}
			go func() {
				wg.Wait()
				rs.PushEnd(mo.None[uint64]())
			}()

			var (
				terminals int
				afterEnd  int
			)
			for ev := range rs.Events() {
				if terminals > 0 {
					afterEnd++
				}
				if ev.Type != DataEvent {
					terminals++
				}
			}

			assert.Equal(t, 1, terminals)
			assert.Zero(t, afterEnd)
			assert.Contains(t, []State{Completed, Failed}, rs.State())
		})
	}
}
