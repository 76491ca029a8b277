package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourohead/ourohead/pkg/definition"
)

func sampleDef() *definition.APIDefinition {
	return &definition.APIDefinition{Endpoints: []definition.Endpoint{
		{Path: "/users", Method: "get", Responses: []definition.StatusResponse{{StatusCode: 200}}},
	}}
}

func TestMemoryStore_LoadSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore(nil)

	def, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, def.Endpoints)
	assert.NotNil(t, def.Endpoints)

	in := sampleDef()
	require.NoError(t, s.Save(ctx, in))

	in.Endpoints[0].Path = "/mutated"
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Endpoints, 1)
	assert.Equal(t, "/users", got.Endpoints[0].Path)
	assert.Equal(t, "GET", got.Endpoints[0].Method)

	got.Endpoints[0].Path = "/mutated-again"
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/users", again.Endpoints[0].Path)
}

func TestMemoryStore_Errors(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(sampleDef())
	assert.ErrorIs(t, s.Save(context.Background(), nil), ErrNilInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, s.Close())
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Save(context.Background(), sampleDef()), ErrClosed)
}

func TestNotifier(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(nil)
	events := make(chan ChangeEvent, 2)
	s.AddChangeListener(func(ChangeEvent) { panic("boom") })
	s.AddChangeListener(func(e ChangeEvent) { events <- e })
	s.AddChangeListener(nil)

	require.NoError(t, s.Save(context.Background(), sampleDef()))
	s.Wait()

	select {
	case e := <-events:
		assert.Equal(t, OperationSave, e.Operation)
		assert.Equal(t, 1, e.Endpoints)
		require.NotNil(t, e.Definition)
		assert.Equal(t, "/users", e.Definition.Endpoints[0].Path)
		assert.NotZero(t, e.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("listener not called")
	}
}

func TestNotifier_DeliversInSaveOrder(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(nil)
	release := make(chan struct{})
	var (
		mu  sync.Mutex
		got []int
	)
	s.AddChangeListener(func(e ChangeEvent) {
		<-release
		mu.Lock()
		got = append(got, e.Endpoints)
		mu.Unlock()
	})
	s.AddChangeListener(func(ChangeEvent) { panic("boom") })

	const saves = 20
	for i := 1; i <= saves; i++ {
		def := &definition.APIDefinition{}
		for j := 0; j < i; j++ {
			def.Endpoints = append(def.Endpoints, definition.Endpoint{
				Path: fmt.Sprintf("/e%d", j), Method: "GET",
			})
		}
		require.NoError(t, s.Save(context.Background(), def))
	}
	close(release)
	s.Wait()

	want := make([]int, saves)
	for i := range want {
		want[i] = i + 1
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}
