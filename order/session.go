package order

import (
	"fmt"
	"log/slog"
	"slices"
)

// State is the observable state of a remediation session.
type State string

const (
	// StateCollecting means the session holds a candidate awaiting validation.
	StateCollecting State = "collecting"
	// StateAwaitingChoice means validation found violations and the session is
	// waiting for an external decision on the offered options.
	StateAwaitingChoice State = "awaiting_choice"
	// StateConfirmed is terminal: the candidate validated with zero violations.
	StateConfirmed State = "confirmed"
	// StateAbandoned is terminal: the external driver gave up on the order.
	StateAbandoned State = "abandoned"
)

// Choice selects one offered remediation option for one violating line item.
type Choice struct {
	ItemIndex int
	Option    RemediationOption
}

// Session drives the repair loop for a single guest order. It validates a
// candidate, offers remediation options for anything invalid, applies the
// chosen option to produce a replacement candidate, and re-validates, until
// the order converges or the driver abandons it. A session belongs to exactly
// one conversation; it is a plain value with no shared state and needs no
// locking.
//
// The session itself puts no bound on the number of rounds. Bounding the loop
// is the driver's job; the session only guarantees that a stalled round is
// observable (the result returned by Apply equals the one the options were
// offered against).
type Session struct {
	validator *Validator
	resolver  *SuggestionResolver

	state     State
	candidate Candidate
	result    Result
	offers    map[int][]RemediationOption
}

// NewSession starts a session in Collecting over the given candidate.
func NewSession(v *Validator, r *SuggestionResolver, candidate Candidate) *Session {
	return &Session{
		validator: v,
		resolver:  r,
		state:     StateCollecting,
		candidate: candidate,
	}
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Candidate returns the current candidate order.
func (s *Session) Candidate() Candidate { return s.candidate }

// Result returns the latest validation result.
func (s *Session) Result() Result { return s.result }

// Offers returns the remediation options offered per violating item position
// for the latest validation round. Empty unless the session is awaiting a
// choice. The returned map is a copy; mutating it cannot alter what the
// session will accept in Apply.
func (s *Session) Offers() map[int][]RemediationOption {
	if s.offers == nil {
		return nil
	}
	out := make(map[int][]RemediationOption, len(s.offers))
	for i, opts := range s.offers {
		out[i] = slices.Clone(opts)
	}
	return out
}

// Validate runs the validator over the current candidate and advances the
// state machine: zero violations moves to Confirmed, otherwise the session
// computes offers per violating item and moves to AwaitingChoice.
func (s *Session) Validate() (Result, error) {
	if s.state != StateCollecting {
		return Result{}, fmt.Errorf("validate called in state %q", s.state)
	}

	s.result = s.validator.Validate(s.candidate)

	if s.result.Valid() {
		s.state = StateConfirmed
		s.offers = nil
		slog.Info("SESSION: Order validated", "room", s.candidate.Room, "revision", s.candidate.Revision)
		return s.result, nil
	}

	s.offers = make(map[int][]RemediationOption, len(s.result.Items))
	for i, v := range s.result.Items {
		s.offers[i] = s.resolver.Propose(s.candidate.Items[i], v)
	}
	s.state = StateAwaitingChoice

	slog.Info("SESSION: Violations found",
		"room", s.candidate.Room,
		"revision", s.candidate.Revision,
		"item_violations", len(s.result.Items),
		"room_violation", s.result.Room != nil,
	)
	return s.result, nil
}

// Apply applies a chosen remediation option, producing a replacement
// candidate with a bumped revision, then re-validates it. A choice that does
// not reference an option from the latest offered set is rejected with
// ErrInvalidChoice and leaves the candidate untouched; stale or adversarial
// input must not corrupt the session.
func (s *Session) Apply(choice Choice) (Result, error) {
	if s.state != StateAwaitingChoice {
		return Result{}, fmt.Errorf("apply called in state %q", s.state)
	}

	offered, ok := s.offers[choice.ItemIndex]
	if !ok {
		return s.result, fmt.Errorf("%w: no options offered for item %d", ErrInvalidChoice, choice.ItemIndex)
	}
	found := false
	for _, o := range offered {
		if o == choice.Option {
			found = true
			break
		}
	}
	if !found {
		return s.result, fmt.Errorf("%w: %s for item %d", ErrInvalidChoice, choice.Option.Kind, choice.ItemIndex)
	}

	item := s.candidate.Items[choice.ItemIndex]
	switch choice.Option.Kind {
	case OptionRemove:
		s.candidate = s.candidate.withoutItem(choice.ItemIndex)
	case OptionSubstitute:
		item.Name = choice.Option.Target
		// Modifications ride along and get re-checked against the new item's
		// rules on the next round.
		s.candidate = s.candidate.withItem(choice.ItemIndex, item)
	case OptionStripModification:
		s.candidate = s.candidate.withItem(choice.ItemIndex, item.WithoutModification(choice.Option.Modification))
	default:
		return s.result, fmt.Errorf("%w: unknown option kind %q", ErrInvalidChoice, choice.Option.Kind)
	}

	slog.Info("SESSION: Choice applied",
		"kind", choice.Option.Kind,
		"item_index", choice.ItemIndex,
		"revision", s.candidate.Revision,
	)

	s.state = StateCollecting
	return s.Validate()
}

// UpdateRoom replaces the room number, for order-level InvalidRoom violations
// that can only be fixed by re-collecting from the guest, and re-validates.
func (s *Session) UpdateRoom(room string) (Result, error) {
	if s.state != StateAwaitingChoice {
		return Result{}, fmt.Errorf("update room called in state %q", s.state)
	}
	s.candidate = s.candidate.withRoom(room)
	s.state = StateCollecting
	return s.Validate()
}

// Abandon moves the session to its terminal Abandoned state. There is no
// in-flight work to cancel; the driver simply stops calling.
func (s *Session) Abandon() {
	s.state = StateAbandoned
	s.offers = nil
	slog.Info("SESSION: Abandoned", "room", s.candidate.Room, "revision", s.candidate.Revision)
}
