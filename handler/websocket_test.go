package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeFeedConn struct {
	writes  [][]byte
	failing bool
	closed  bool
}

func (f *fakeFeedConn) WriteMessage(messageType int, data []byte) error {
	if f.failing {
		return errors.New("broken pipe")
	}
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeFeedConn) Close() error {
	f.closed = true
	return nil
}

func resetFeedClients(conns ...feedConn) {
	feedMu.Lock()
	defer feedMu.Unlock()
	feedClients = make(map[feedConn]bool)
	for _, c := range conns {
		feedClients[c] = true
	}
}

func TestBroadcastOrderPayloadWritesOncePerClient(t *testing.T) {
	a := &fakeFeedConn{}
	b := &fakeFeedConn{}
	resetFeedClients(a, b)
	defer resetFeedClients()

	broadcastOrderPayload([]byte(`{"publicCode":"LOM-20260831120000-4567"}`))
	broadcastOrderPayload([]byte(`{"publicCode":"LOM-20260831120100-1111"}`))

	assert.Len(t, a.writes, 2)
	assert.Len(t, b.writes, 2)
	assert.Equal(t, `{"publicCode":"LOM-20260831120000-4567"}`, string(a.writes[0]))
}

func TestBroadcastOrderPayloadEvictsFailedConn(t *testing.T) {
	healthy := &fakeFeedConn{}
	broken := &fakeFeedConn{failing: true}
	resetFeedClients(healthy, broken)
	defer resetFeedClients()

	broadcastOrderPayload([]byte(`{}`))

	assert.True(t, broken.closed)
	assert.Len(t, healthy.writes, 1)

	feedMu.Lock()
	_, stillThere := feedClients[broken]
	feedMu.Unlock()
	assert.False(t, stillThere)

	// The healthy client keeps receiving after the eviction.
	broadcastOrderPayload([]byte(`{}`))
	assert.Len(t, healthy.writes, 2)
}
