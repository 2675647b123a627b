package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lucifer/internal/adapters/telemetry"
)

type collector struct {
	mu     sync.Mutex
	chunks []string
}

func (c *collector) add(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, string(data))
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.chunks...)
}

func TestBatcher_FlushOnSizeKeepsLinesWhole(t *testing.T) {
	var c collector
	b := telemetry.NewBatcher(8, time.Hour, c.add)
	defer func() { _ = b.Close() }()

	_, err := b.Write([]byte("ok 1\nok"))
	require.NoError(t, err)
	assert.Empty(t, c.get())

	_, err = b.Write([]byte(" 2\nok 3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ok 1\nok 2\n"}, c.get())

	require.NoError(t, b.Close())
	assert.Equal(t, []string{"ok 1\nok 2\n", "ok 3"}, c.get())
}

func TestBatcher_FlushOnSizeWithoutNewline(t *testing.T) {
	var c collector
	b := telemetry.NewBatcher(4, time.Hour, c.add)
	defer func() { _ = b.Close() }()

	_, err := b.Write([]byte("......"))
	require.NoError(t, err)
	assert.Equal(t, []string{"......"}, c.get())
}

func TestBatcher_FlushOnTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c collector
		b := telemetry.NewBatcher(1024, 50*time.Millisecond, c.add)
		defer func() { _ = b.Close() }()

		_, err := b.Write([]byte("PASS\npartial"))
		require.NoError(t, err)
		assert.Empty(t, c.get())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{"PASS\n"}, c.get())
	})
}

func TestBatcher_ManualFlush(t *testing.T) {
	var c collector
	b := telemetry.NewBatcher(100, time.Hour, c.add)
	defer func() { _ = b.Close() }()

	_, err := b.Write([]byte("hello\n"))
	require.NoError(t, err)
	b.Flush()
	b.Flush()

	assert.Equal(t, []string{"hello\n"}, c.get())
}

func TestBatcher_CloseFlushes(t *testing.T) {
	var c collector
	b := telemetry.NewBatcher(100, time.Hour, c.add)

	_, err := b.Write([]byte("pending"))
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, []string{"pending"}, c.get())

	_, err = b.Write([]byte("fail"))
	require.Error(t, err)
	b.Flush()
}

func TestBatcher_ThreadSafety(t *testing.T) {
	var c collector
	b := telemetry.NewBatcher(20, 10*time.Millisecond, c.add)

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			for j := range 100 {
				_, _ = b.Write([]byte("a\n"))
				if j%10 == 0 {
					b.Flush()
				}
			}
		})
	}
	wg.Wait()
	require.NoError(t, b.Close())

	total := 0
	for _, chunk := range c.get() {
		total += len(chunk)
	}
	assert.Equal(t, 10*100*2, total)
}
