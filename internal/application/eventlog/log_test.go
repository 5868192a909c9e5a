package eventlog

import (
	"context"
	"testing"

	"coown-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(id string, t domain.EventType) domain.DemandEvent {
	return domain.DemandEvent{ID: id, EventType: t}
}

func TestAppendAndEvents(t *testing.T) {
	l := New(nil)
	require.NoError(t, l.Append(ev("e1", domain.EventCreate), ev("e2", domain.EventStageChange)))
	require.Equal(t, 2, l.Len())

	got := l.Events()
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)

	got[0].ID = "mutated"
	assert.Equal(t, "e1", l.Events()[0].ID)
}

func TestAppend_AllOrNothing(t *testing.T) {
	l := New([]domain.DemandEvent{ev("e0", domain.EventCreate)})
	err := l.Append(ev("e1", domain.EventCreate), ev("", domain.EventCreate))
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Equal(t, 1, l.Len())

	err = l.Append(ev("e2", "DELETE"))
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, 1, l.Len())
}

func TestNew_CopiesInput(t *testing.T) {
	seed := []domain.DemandEvent{ev("e1", domain.EventCreate)}
	l := New(seed)
	seed[0].ID = "changed"
	assert.Equal(t, "e1", l.Events()[0].ID)
}

func TestRecent(t *testing.T) {
	l := New(nil)
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, l.Append(ev(id, domain.EventCreate)))
	}
	ids := func(es []domain.DemandEvent) []string {
		out := []string{}
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}
	assert.Equal(t, []string{"d", "c"}, ids(l.Recent(2)))
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(l.Recent(0)))
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(l.Recent(10)))
}

func TestSessionFrom(t *testing.T) {
	fallback := Session{ID: "s-default"}
	got := SessionFrom(context.Background(), fallback)
	assert.Equal(t, "s-default", got.ID)
	assert.Equal(t, domain.ChannelWeb, got.Channel)

	ctx := WithSession(context.Background(), Session{ID: "s-1", Channel: domain.ChannelApp})
	got = SessionFrom(ctx, fallback)
	assert.Equal(t, "s-1", got.ID)
	assert.Equal(t, domain.ChannelApp, got.Channel)

	ctx = WithSession(context.Background(), Session{})
	assert.Equal(t, "s-default", SessionFrom(ctx, fallback).ID)
}
