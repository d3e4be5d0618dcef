package client

import (
	"context"
	"sync"
)

// Phase tracks the lifecycle of an asynchronous action: it is pending while
// the thunk runs, then fulfilled or rejected exactly once.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

// Action is one state transition. Payload carries the thunk's result on
// fulfillment; Err carries its failure on rejection.
type Action struct {
	Type    string
	Phase   Phase
	Payload any
	Err     error
}

// State is the container's snapshot. Reducers derive the next snapshot from
// the previous one and an action; snapshots themselves are never mutated in
// place.
type State struct {
	Token    string
	Me       *ProfileView
	Members  []ProfileView
	Feed     []PostView
	Incoming []ConnectionView
	Outgoing []ConnectionView
	Comments map[string][]CommentView

	// Status and Errors track each action type's latest phase and failure.
	Status map[string]Phase
	Errors map[string]string
}

// Reducer derives the next state from the previous state and an action.
type Reducer func(State, Action) State

// Thunk performs the asynchronous work behind an action and returns its
// payload.
type Thunk func(ctx context.Context) (any, error)

// Store serialises state transitions: every dispatched action flows through
// the reducer under a single lock, and subscribers observe each resulting
// snapshot in order.
type Store struct {
	mu          sync.Mutex
	state       State
	reducer     Reducer
	subscribers []func(State)
	wg          sync.WaitGroup
}

// NewStore builds a store with the given reducer and initial state. A nil
// reducer falls back to DefaultReducer.
func NewStore(reducer Reducer, initial State) *Store {
	if reducer == nil {
		reducer = DefaultReducer
	}
	return &Store{state: initial, reducer: reducer}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener invoked after every state transition.
func (s *Store) Subscribe(fn func(State)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Dispatch runs the thunk asynchronously. A pending action is applied
// before the thunk starts, then a fulfilled action with the thunk's payload
// or a rejected action with its error.
func (s *Store) Dispatch(ctx context.Context, actionType string, thunk Thunk) {
	s.apply(Action{Type: actionType, Phase: PhasePending})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		payload, err := thunk(ctx)
		if err != nil {
			s.apply(Action{Type: actionType, Phase: PhaseRejected, Err: err})
			return
		}
		s.apply(Action{Type: actionType, Phase: PhaseFulfilled, Payload: payload})
	}()
}

// DispatchSync applies a fully-formed action immediately, bypassing the
// pending/settled lifecycle. Useful for synchronous transitions such as
// clearing a session.
func (s *Store) DispatchSync(action Action) {
	s.apply(action)
}

// Wait blocks until every dispatched thunk has settled.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) apply(action Action) {
	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	next := s.state
	subscribers := make([]func(State), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
}

// Action types understood by DefaultReducer.
const (
	ActionLogin         = "auth/login"
	ActionLogout        = "auth/logout"
	ActionFetchMe       = "users/me"
	ActionFetchMembers  = "users/list"
	ActionFetchFeed     = "posts/feed"
	ActionFetchIncoming = "connections/incoming"
	ActionFetchOutgoing = "connections/outgoing"
	ActionFetchComments = "posts/comments"
)

// CommentsPayload pairs a post id with its comment page so the reducer can
// file it under the right key.
type CommentsPayload struct {
	PostID   string
	Comments []CommentView
}

// DefaultReducer files fulfilled payloads into the matching state fields and
// records each action's phase and last error.
func DefaultReducer(state State, action Action) State {
	if state.Status == nil {
		state.Status = make(map[string]Phase)
	} else {
		status := make(map[string]Phase, len(state.Status))
		for k, v := range state.Status {
			status[k] = v
		}
		state.Status = status
	}
	if state.Errors == nil {
		state.Errors = make(map[string]string)
	} else {
		errs := make(map[string]string, len(state.Errors))
		for k, v := range state.Errors {
			errs[k] = v
		}
		state.Errors = errs
	}

	state.Status[action.Type] = action.Phase
	delete(state.Errors, action.Type)

	switch action.Phase {
	case PhaseRejected:
		if action.Err != nil {
			state.Errors[action.Type] = action.Err.Error()
		}
		return state
	case PhasePending:
		return state
	}

	switch action.Type {
	case ActionLogin:
		if token, ok := action.Payload.(string); ok {
			state.Token = token
		}
	case ActionLogout:
		state.Token = ""
		state.Me = nil
	case ActionFetchMe:
		if view, ok := action.Payload.(ProfileView); ok {
			state.Me = &view
		}
	case ActionFetchMembers:
		if members, ok := action.Payload.([]ProfileView); ok {
			state.Members = members
		}
	case ActionFetchFeed:
		if feed, ok := action.Payload.([]PostView); ok {
			state.Feed = feed
		}
	case ActionFetchIncoming:
		if views, ok := action.Payload.([]ConnectionView); ok {
			state.Incoming = views
		}
	case ActionFetchOutgoing:
		if views, ok := action.Payload.([]ConnectionView); ok {
			state.Outgoing = views
		}
	case ActionFetchComments:
		if payload, ok := action.Payload.(CommentsPayload); ok {
			comments := make(map[string][]CommentView, len(state.Comments)+1)
			for k, v := range state.Comments {
				comments[k] = v
			}
			comments[payload.PostID] = payload.Comments
			state.Comments = comments
		}
	}

	return state
}
