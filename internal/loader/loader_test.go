package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestEnsureFetchesOnce(t *testing.T) {
	var calls int32
	l := New(context.Background(), "clients", func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"Ana", "Bia"}, nil
	}, discard)
	defer l.Close()

	snap, err := l.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Bia"}, snap.Data)
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)

	_, err = l.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLastIssuedFetchWins(t *testing.T) {
	release := map[string]chan struct{}{
		"An":  make(chan struct{}),
		"Ana": make(chan struct{}),
	}
	var term atomic.Value
	term.Store("An")

	l := New(context.Background(), "search", func(ctx context.Context) ([]string, error) {
		q := term.Load().(string)
		select {
		case <-release[q]:
		case <-ctx.Done():
			// resultado atrasado de uma busca já substituída
			<-release[q]
		}
		if q == "An" {
			return []string{"Ana", "Anabela", "Antônia"}, nil
		}
		return []string{"Ana"}, nil
	}, discard)
	defer l.Close()

	l.Reload()
	time.Sleep(5 * time.Millisecond)

	term.Store("Ana")
	l.Reload()
	time.Sleep(5 * time.Millisecond)

	close(release["Ana"])
	snap, err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, snap.Data)

	// a resposta de "An" chega depois e é descartada
	close(release["An"])
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, []string{"Ana"}, l.Snapshot().Data)
}

func TestFetchErrorKeepsData(t *testing.T) {
	fail := atomic.Bool{}
	l := New(context.Background(), "services", func(ctx context.Context) ([]string, error) {
		if fail.Load() {
			return nil, errors.New("timeout")
		}
		return []string{"Manicure"}, nil
	}, discard)
	defer l.Close()

	_, err := l.Ensure(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	snap, err := l.Refresh(context.Background())
	require.NoError(t, err)
	assert.EqualError(t, snap.Err, "timeout")
	assert.Equal(t, []string{"Manicure"}, snap.Data)
}

func TestCloseDropsLateResults(t *testing.T) {
	release := make(chan struct{})
	l := New(context.Background(), "agenda", func(ctx context.Context) ([]string, error) {
		<-release
		return []string{"late"}, nil
	}, discard)

	l.Reload()
	l.Close()

	snap, err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Loading)

	close(release)
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, l.Snapshot().Data)

	l.Reload()
	assert.False(t, l.Snapshot().Loading)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	items := []string{"Ana", "Bia"}
	l := New(context.Background(), "clients", func(ctx context.Context) ([]string, error) {
		return append([]string(nil), items...), nil
	}, discard)
	defer l.Close()
	_, err := l.Ensure(context.Background())
	require.NoError(t, err)

	deletes := 0
	del := func(ctx context.Context) error {
		deletes++
		items = items[1:]
		return nil
	}

	ok, err := l.Delete(context.Background(), func() bool { return false }, del)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, deletes)
	assert.Equal(t, []string{"Ana", "Bia"}, l.Snapshot().Data)

	ok, err = l.Delete(context.Background(), func() bool { return true }, del)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, deletes)
	assert.Equal(t, []string{"Bia"}, l.Snapshot().Data)
}

func TestDeleteFailureLeavesDataUntouched(t *testing.T) {
	l := New(context.Background(), "clients", func(ctx context.Context) ([]string, error) {
		return []string{"Ana"}, nil
	}, discard)
	defer l.Close()
	_, err := l.Ensure(context.Background())
	require.NoError(t, err)

	boom := errors.New("foreign key violation")
	ok, err := l.Delete(context.Background(), func() bool { return true }, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Equal(t, []string{"Ana"}, l.Snapshot().Data)
}

func TestFilter(t *testing.T) {
	type client struct{ Nome, Telefone string }
	items := []client{{"Ana Souza", "11999990000"}, {"Beatriz", "21988887777"}, {"Mariana", "11977776666"}}

	byName := func(c client) string { return c.Nome }
	byPhone := func(c client) string { return c.Telefone }

	assert.Len(t, Filter(items, "", byName), 3)
	assert.Equal(t, []client{items[0], items[2]}, Filter(items, "ANA", byName))
	assert.Equal(t, []client{items[1]}, Filter(items, "2198", byName, byPhone))
	assert.Empty(t, Filter(items, "zzz", byName, byPhone))
}
