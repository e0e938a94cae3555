package gateway

import "sync"

// Mutation names a type of change. Every type has its own state.
type Mutation string

const (
	MutationSubject       Mutation = "subject"
	MutationGrade         Mutation = "grade"
	MutationNote          Mutation = "note"
	MutationReminder      Mutation = "reminder"
	MutationProfile       Mutation = "profile"
	MutationEmail         Mutation = "email"
	MutationPhone         Mutation = "phone"
	MutationPassword      Mutation = "password"
	MutationTwoFactor     Mutation = "two_factor"
	MutationAvatar        Mutation = "avatar"
	MutationAccount       Mutation = "account"
	MutationPasswordReset Mutation = "password_reset"
	MutationBackfill      Mutation = "backfill"
)

// State is the position of one mutation type in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateConfirmPrompt
	StateReauthenticate
	StateCommitting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateConfirmPrompt:
		return "confirm_prompt"
	case StateReauthenticate:
		return "reauthenticate"
	case StateCommitting:
		return "committing"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Machine tracks the state of every mutation type for one session. It is
// shared by all gateways of that session.
type Machine struct {
	mu     sync.Mutex
	states map[Mutation]State
	hook   func(Mutation, State)
}

// NewMachine returns a Machine with every mutation idle.
func NewMachine() *Machine {
	return &Machine{states: make(map[Mutation]State)}
}

// State returns the current state of m.
func (m *Machine) State(kind Mutation) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[kind]
}

// OnTransition registers fn to observe every transition. fn runs without
// the machine lock held.
func (m *Machine) OnTransition(fn func(Mutation, State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = fn
}

// begin moves kind to Validating. It fails when a mutation of that kind is
// already running.
func (m *Machine) begin(kind Mutation) bool {
	m.mu.Lock()
	if st := m.states[kind]; st != StateIdle && st != StateFailed {
		m.mu.Unlock()
		return false
	}
	m.states[kind] = StateValidating
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(kind, StateValidating)
	}
	return true
}

func (m *Machine) set(kind Mutation, st State) {
	m.mu.Lock()
	m.states[kind] = st
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(kind, st)
	}
}
