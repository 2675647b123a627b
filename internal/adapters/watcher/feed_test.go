package watcher_test

import (
	"context"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lucifer/internal/adapters/watcher"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/lucifer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func seq(events ...ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for _, e := range events {
			if !yield(e) {
				return
			}
		}
	}
}

func TestFeed_InvalidatesRelativePaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	ctx := context.Background()
	w.EXPECT().Start(ctx, "/srv/app").Return(nil)
	w.EXPECT().Events().Return(seq(
		ports.WatchEvent{Path: "/srv/app/lib/users.go", Operation: ports.OpWrite},
		ports.WatchEvent{Path: "/srv/app/lib/old.go", Operation: ports.OpRemove},
		ports.WatchEvent{Path: "/srv/app/test/users.test.js", Operation: ports.OpCreate},
		ports.WatchEvent{Path: "/srv/app/lib/users.go", Operation: ports.OpWrite},
		ports.WatchEvent{Path: "/elsewhere/x.go", Operation: ports.OpWrite},
	))
	w.EXPECT().Stop().Return(nil)

	var mu sync.Mutex
	var got [][]string
	err := watcher.Feed(ctx, w, "/srv/app", time.Hour, logger, func(_ context.Context, files []string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, files)
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]string{{"lib/users.go", "test/users.test.js"}}, got)
}

func TestFeed_KeepsDotDotPrefixedNamesInsideRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	ctx := context.Background()
	w.EXPECT().Start(ctx, "/srv/app").Return(nil)
	w.EXPECT().Events().Return(seq(
		ports.WatchEvent{Path: "/srv/app/..foo.test.js", Operation: ports.OpWrite},
		ports.WatchEvent{Path: "/srv/app/..cache/users.js", Operation: ports.OpWrite},
		ports.WatchEvent{Path: "/srv/other.js", Operation: ports.OpWrite},
	))
	w.EXPECT().Stop().Return(nil)

	var got [][]string
	err := watcher.Feed(ctx, w, "/srv/app", time.Hour, logger, func(_ context.Context, files []string) {
		got = append(got, files)
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"..cache/users.js", "..foo.test.js"}}, got)
}

func TestFeed_StartError(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	w.EXPECT().Start(gomock.Any(), "/srv/app").Return(assert.AnError)

	err := watcher.Feed(context.Background(), w, "/srv/app", time.Millisecond, logger, func(context.Context, []string) {
		t.Fatal("unexpected invalidation")
	})
	require.ErrorIs(t, err, assert.AnError)
}
