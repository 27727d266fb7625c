package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aircon-bridge/internal/climate"
)

// mockPublisher is a mock implementation of the Publisher interface.
type mockPublisher struct {
	PublishFunc func(topic string, payload any, retained bool) error
}

func (m *mockPublisher) Publish(topic string, payload any, retained bool) error {
	return m.PublishFunc(topic, payload, retained)
}

type mockCommander struct {
	mu    sync.Mutex
	calls [][3]string
	err   error
}

func (m *mockCommander) Command(ctx context.Context, id, command, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, [3]string{id, command, payload})
	return m.err
}

type mockSubscriber struct {
	filter  string
	handler func(topic string, payload []byte)
}

func (m *mockSubscriber) Subscribe(filter string, handler func(topic string, payload []byte)) error {
	m.filter = filter
	m.handler = handler
	return nil
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, &mockPublisher{})

	states := []climate.State{{EntityID: "R1-ac1"}}
	assert.True(t, wp.Dispatch(states))

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, states, job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DropsWhenFull(t *testing.T) {
	wp := NewWorkerPool(1, &mockPublisher{})

	assert.True(t, wp.Dispatch(nil))
	assert.False(t, wp.Dispatch(nil))
	assert.Len(t, wp.Jobs(), 1)
}

func TestWorkerPool_PublishesRetainedStates(t *testing.T) {
	var (
		mu     sync.Mutex
		topics []string
		wg     sync.WaitGroup
	)
	wg.Add(2)
	wp := NewWorkerPool(1, &mockPublisher{
		PublishFunc: func(topic string, payload any, retained bool) error {
			defer wg.Done()
			assert.True(t, retained)
			st, ok := payload.(climate.State)
			require.True(t, ok)
			assert.Equal(t, StateTopic(st.EntityID), topic)

			mu.Lock()
			topics = append(topics, topic)
			mu.Unlock()
			if st.EntityID == "R1-ac1" {
				return errors.New("broker gone")
			}
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch([]climate.State{{EntityID: "R1-ac1"}, {EntityID: "R1-ac1-z1"}})
	wg.Wait()

	// A failed publish does not stop the rest of the batch.
	assert.Equal(t, []string{"R1-ac1/state", "R1-ac1-z1/state"}, topics)
}

func TestParseCommandTopic(t *testing.T) {
	testCases := []struct {
		topic       string
		wantEntity  string
		wantCommand string
		wantOK      bool
	}{
		{"R1-ac1/set/hvac_mode", "R1-ac1", "hvac_mode", true},
		{"R1-ac1-z1/set/set_myzone", "R1-ac1-z1", "set_myzone", true},
		{"R1-ac1/state", "", "", false},
		{"R1-ac1/get/hvac_mode", "", "", false},
		{"/set/hvac_mode", "", "", false},
		{"R1-ac1/set/", "", "", false},
		{"R1-ac1/set/fan_mode/extra", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.topic, func(t *testing.T) {
			entity, command, ok := ParseCommandTopic(tc.topic)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantEntity, entity)
			assert.Equal(t, tc.wantCommand, command)
		})
	}
}

func TestCommandListener_Handle(t *testing.T) {
	commander := &mockCommander{}
	l := NewCommandListener(context.Background(), commander)

	require.NoError(t, l.Handle("R1-ac1/set/hvac_mode", []byte(`"cool"`)))
	require.NoError(t, l.Handle("R1-ac1/set/temperature", []byte(" 22.5\n")))
	require.NoError(t, l.Handle("R1-ac1/state", []byte(`{}`)))

	assert.Equal(t, [][3]string{
		{"R1-ac1", "hvac_mode", "cool"},
		{"R1-ac1", "temperature", "22.5"},
	}, commander.calls)

	commander.err = climate.ErrInvalidArgument
	err := l.Handle("R1-ac1/set/fan_mode", []byte("turbo"))
	assert.ErrorIs(t, err, climate.ErrInvalidArgument)
}

func TestCommandListener_Listen(t *testing.T) {
	commander := &mockCommander{}
	sub := &mockSubscriber{}
	l := NewCommandListener(context.Background(), commander)

	require.NoError(t, l.Listen(sub))
	assert.Equal(t, CommandFilter, sub.filter)
	require.NotNil(t, sub.handler)

	sub.handler("R1-ac1-z1/set/set_myzone", nil)
	assert.Eventually(t, func() bool {
		commander.mu.Lock()
		defer commander.mu.Unlock()
		return len(commander.calls) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, [3]string{"R1-ac1-z1", "set_myzone", ""}, commander.calls[0])
}

func TestClient_RequiresConnection(t *testing.T) {
	c := NewClient("tcp://127.0.0.1:1883", "test", "aircon/")
	assert.Error(t, c.Publish("R1-ac1/state", climate.State{}, true))
	assert.Error(t, c.Subscribe(CommandFilter, func(string, []byte) {}))
	c.Disconnect()

	topic, err := c.scope("R1-ac1/state")
	require.NoError(t, err)
	assert.Equal(t, "aircon/R1-ac1/state", topic)
	_, err = c.scope("/abs")
	assert.Error(t, err)
	_, err = c.scope("")
	assert.Error(t, err)
}
