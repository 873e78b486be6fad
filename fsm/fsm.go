// Package fsm is a small finite state machine used to guard proposal
// lifecycle transitions.
package fsm

import (
	"fmt"
	"strings"
	"sync"
)

type State string

func (s State) String() string {
	return string(s)
}

type Event string

func (e Event) String() string {
	return string(e)
}

// EventDesc declares one event and the transitions it drives: from any
// of SrcState into DstState.
type EventDesc struct {
	Name     Event
	SrcState []State
	DstState State
}

type trKey struct {
	source State
	event  Event
}

// FSM is a plain transition table with a current state. Callers hold it
// per guarded entity; Do is safe for concurrent use.
type FSM struct {
	name         string
	initialState State
	currentState State

	transitions map[trKey]State

	stateMu sync.RWMutex
}

// MustNewFSM builds a machine from the event table and panics on an
// invalid configuration. Configuration is static, so a panic here is a
// programming error, not a runtime condition.
func MustNewFSM(machineName string, initialState State, events []EventDesc) *FSM {
	machineName = strings.TrimSpace(machineName)

	if machineName == "" {
		panic("machine name cannot be empty")
	}

	if strings.TrimSpace(initialState.String()) == "" {
		panic("initial state cannot be empty")
	}

	if len(events) == 0 {
		panic("cannot init fsm with empty events")
	}

	f := &FSM{
		name:         machineName,
		initialState: initialState,
		currentState: initialState,
		transitions:  make(map[trKey]State),
	}

	allStates := map[State]bool{initialState: true}

	for _, event := range events {
		if strings.TrimSpace(event.Name.String()) == "" {
			panic("cannot init empty event")
		}

		if strings.TrimSpace(event.DstState.String()) == "" {
			panic(fmt.Sprintf("event \"%s\" dst state cannot be empty", event.Name))
		}

		if len(event.SrcState) == 0 {
			panic(fmt.Sprintf("event \"%s\" must have minimum one source state", event.Name))
		}

		for _, source := range event.SrcState {
			tKey := trKey{source, event.Name}
			if _, ok := f.transitions[tKey]; ok {
				panic(fmt.Sprintf("duplicate dst for pair \"%s\" + \"%s\"", source, event.Name))
			}
			f.transitions[tKey] = event.DstState
			allStates[source] = true
			allStates[event.DstState] = true
		}
	}

	if len(allStates) < 2 {
		panic("machine must contain at least two states")
	}

	return f
}

// Do executes the event from the current state. The state is left
// untouched when no transition is declared for the pair.
func (f *FSM) Do(event Event) (State, error) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()

	dstState, ok := f.transitions[trKey{f.currentState, event}]
	if !ok {
		return f.currentState, fmt.Errorf(
			"cannot execute event \"%s\" for state \"%s\"", event, f.currentState)
	}

	f.currentState = dstState
	return dstState, nil
}

// CanDo reports whether the event is executable from the current state
// without performing the transition.
func (f *FSM) CanDo(event Event) bool {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()

	_, ok := f.transitions[trKey{f.currentState, event}]
	return ok
}

func (f *FSM) State() State {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.currentState
}

// SetState force-moves the machine, bypassing the transition table. Used
// to rehydrate a machine from persisted state.
func (f *FSM) SetState(state State) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	f.currentState = state
}

func (f *FSM) Name() string {
	return f.name
}

func (f *FSM) InitialState() State {
	return f.initialState
}
