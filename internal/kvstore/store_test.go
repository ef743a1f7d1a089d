package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func openTest(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "kv.db"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGetLeaf(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "/user/alice/name/", "Alice"))
	snap, err := s.Get(ctx, "user/alice/name")
	require.NoError(t, err)
	assert.True(t, snap.Exists)
	assert.True(t, snap.Leaf)
	assert.Equal(t, "Alice", snap.Value)
	assert.Equal(t, "user/alice/name", snap.Path)

	require.NoError(t, s.Set(ctx, "user/alice/name", "Al"))
	snap, err = s.Get(ctx, "user/alice/name")
	require.NoError(t, err)
	assert.Equal(t, "Al", snap.Value)
}

func TestStore_GetFolderChildren(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user/bob/age", "30"))
	require.NoError(t, s.Set(ctx, "user/bob/city", "Oslo"))
	require.NoError(t, s.Set(ctx, "user/alice/name", "Alice"))
	require.NoError(t, s.Set(ctx, "user/motd", "hi"))

	snap, err := s.Get(ctx, "user")
	require.NoError(t, err)
	assert.True(t, snap.Folder())
	assert.Equal(t, []Child{
		{Key: "alice", Folder: true, Count: 1},
		{Key: "bob", Folder: true, Count: 2},
		{Key: "motd", Value: "hi"},
	}, snap.Children)

	root, err := s.Get(ctx, "")
	require.NoError(t, err)
	assert.True(t, root.Exists)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "user", root.Children[0].Key)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTest(t, Options{})
	snap, err := s.Get(context.Background(), "user/nobody")
	require.NoError(t, err)
	assert.False(t, snap.Exists)
	assert.False(t, snap.Folder())
}

func TestStore_SetReplacesSubtreeAndLeafAncestors(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user/alice/name", "Alice"))
	require.NoError(t, s.Set(ctx, "user/alice", "gone"))

	snap, err := s.Get(ctx, "user/alice")
	require.NoError(t, err)
	assert.True(t, snap.Leaf)
	assert.Equal(t, "gone", snap.Value)

	require.NoError(t, s.Set(ctx, "user/alice/name", "back"))
	snap, err = s.Get(ctx, "user/alice")
	require.NoError(t, err)
	assert.True(t, snap.Folder())
}

func TestStore_LikeWildcardsAreLiteral(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a_b/x", "1"))
	require.NoError(t, s.Set(ctx, "acb/y", "2"))

	snap, err := s.Get(ctx, "a_b")
	require.NoError(t, err)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, "x", snap.Children[0].Key)
}

func TestStore_PathsAreCaseSensitive(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "USER/keep", "important"))
	require.NoError(t, s.Set(ctx, "User/also", "kept"))
	require.NoError(t, s.Set(ctx, "user/a", "1"))

	snap, err := s.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, []Child{{Key: "a", Value: "1"}}, snap.Children)

	require.NoError(t, s.Set(ctx, "user", "leaf"))
	kept, err := s.Get(ctx, "USER/keep")
	require.NoError(t, err)
	assert.True(t, kept.Exists)
	assert.Equal(t, "important", kept.Value)

	require.NoError(t, s.Remove(ctx, "user"))
	kept, err = s.Get(ctx, "User/also")
	require.NoError(t, err)
	assert.True(t, kept.Exists)

	root, err := s.Get(ctx, "")
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "USER", root.Children[0].Key)
	assert.Equal(t, "User", root.Children[1].Key)
}

func TestStore_Remove(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user/bob/age", "30"))
	require.NoError(t, s.Set(ctx, "user/bob/city", "Oslo"))
	require.NoError(t, s.Set(ctx, "user/bobby", "other"))

	require.NoError(t, s.Remove(ctx, "user/bob"))
	snap, err := s.Get(ctx, "user")
	require.NoError(t, err)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, "bobby", snap.Children[0].Key)

	err = s.Remove(ctx, "user/bob")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Push(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	k1, err := s.Push(ctx, "user/log", "first")
	require.NoError(t, err)
	k2, err := s.Push(ctx, "user/log", "second")
	require.NoError(t, err)
	assert.Less(t, k1, k2)

	snap, err := s.Get(ctx, "user/log")
	require.NoError(t, err)
	require.Len(t, snap.Children, 2)
	assert.Equal(t, "first", snap.Children[0].Value)
	assert.Equal(t, "second", snap.Children[1].Value)
}

func TestStore_InvalidPaths(t *testing.T) {
	s := openTest(t, Options{})
	ctx := context.Background()

	for _, p := range []string{"", "/", "a//b", "a/b.c", "a/$x", "a/[0]", "#"} {
		err := s.Set(ctx, p, "v")
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
	_, err := s.Push(ctx, "", "v")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestStore_Subscribe(t *testing.T) {
	s := openTest(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)

	require.NoError(t, s.Set(context.Background(), "user/a", "1"))
	require.NoError(t, s.Remove(context.Background(), "user/a"))

	assert.Equal(t, Change{Op: OpSet, Path: "user/a"}, <-ch)
	assert.Equal(t, Change{Op: OpRemove, Path: "user/a"}, <-ch)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestStore_CloseEndsSubscriptions(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "kv.db"), Options{})
	require.NoError(t, err)
	ch := s.Subscribe(context.Background())

	require.NoError(t, s.Close())
	_, ok := <-ch
	assert.False(t, ok)

	assert.ErrorIs(t, s.Set(context.Background(), "a", "b"), ErrStoreClosed)
	assert.NoError(t, s.Close())
}

func TestStore_PollDetectsOtherWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	watcher, err := Open(context.Background(), path, Options{PollInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	defer watcher.Close()
	ch := watcher.Subscribe(context.Background())

	writer, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	defer writer.Close()

	// let the watcher record a baseline version
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, writer.Set(context.Background(), "user/x", "1"))

	select {
	case c := <-ch:
		assert.Equal(t, OpExternal, c.Op)
		assert.True(t, c.Affects("user/anything"))
	case <-time.After(2 * time.Second):
		t.Fatal("expected an external change")
	}
}

func TestStore_Spans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	s := openTest(t, Options{Tracer: tp.Tracer("test")})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user/a", "1"))
	_ = s.Remove(ctx, "user/missing")

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "kvstore.Set", spans[0].Name())
	assert.Equal(t, "kvstore.Remove", spans[1].Name())
	assert.Len(t, spans[1].Events(), 1)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}
