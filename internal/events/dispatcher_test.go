package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DispatcherSuite struct {
	suite.Suite
	dispatcher Dispatcher
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.dispatcher = NewInMemoryDispatcher()
	s.ctx = context.Background()
}

func (s *DispatcherSuite) TestPublishReachesSubscribersInOrder() {
	var seen []string
	s.dispatcher.Subscribe(EventLandRegistered, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.ID)
		return nil
	})
	s.dispatcher.Subscribe(EventLandRegistered, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.ID)
		return nil
	})

	s.Require().NoError(s.dispatcher.Publish(s.ctx, Event{ID: "e1", Type: EventLandRegistered}))
	s.Equal([]string{"first:e1", "second:e1"}, seen)
}

func (s *DispatcherSuite) TestPublishIgnoresUnsubscribedTypes() {
	called := false
	s.dispatcher.Subscribe(EventTransferApproved, func(context.Context, Event) error {
		called = true
		return nil
	})

	s.Require().NoError(s.dispatcher.Publish(s.ctx, Event{Type: EventPropertyVerified}))
	s.False(called)
}

func (s *DispatcherSuite) TestFailingHandlerDoesNotBlockOthers() {
	var reached bool
	s.dispatcher.Subscribe(EventRoleAssigned, func(context.Context, Event) error {
		return errors.New("mirror down")
	})
	s.dispatcher.Subscribe(EventRoleAssigned, func(context.Context, Event) error {
		reached = true
		return nil
	})

	s.Require().NoError(s.dispatcher.Publish(s.ctx, Event{Type: EventRoleAssigned}))
	s.True(reached)
}

func (s *DispatcherSuite) TestSubscribeAllCoversEveryType() {
	counts := make(map[EventType]int)
	SubscribeAll(s.dispatcher, func(_ context.Context, e Event) error {
		counts[e.Type]++
		return nil
	})

	for _, t := range AllTypes {
		s.Require().NoError(s.dispatcher.Publish(s.ctx, Event{Type: t}))
	}

	s.Len(counts, len(AllTypes))
	for _, t := range AllTypes {
		s.Equal(1, counts[t], string(t))
	}
}
