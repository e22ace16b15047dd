package domain

import "time"

// Session is the evolving state of one conversation: the message log, the
// virtual clock, and the scheduler's working set. One session exists per
// character (or group), and owns its own clock instance.
type Session struct {
	CharacterID    CharacterID
	GroupID        string
	IsGroup        bool
	ParticipantIDs []CharacterID

	Messages      []Message
	Clock         *VirtualClock
	Pending       []Delivery
	Notifications []string

	// ActiveJobID is empty while nobody is working. LastSalaryClaim maps a
	// job to the day key of its most recent successful payout.
	ActiveJobID     JobID
	LastSalaryClaim map[JobID]string

	LastUpdated time.Time
}

// NewSession initializes a fresh session from a character's scenario. The
// wall clock is only consulted for scenario start-time fallback.
func NewSession(ch Character, now time.Time) *Session {
	start := VirtualTimeOf(ch.Scenario.StartTime(now))
	return &Session{
		CharacterID:     ch.ID,
		ParticipantIDs:  []CharacterID{ch.ID},
		Clock:           NewVirtualClock(start),
		LastSalaryClaim: map[JobID]string{},
	}
}

// SessionID is the persistence key component: the group id for group chats,
// otherwise the character id.
func (s *Session) SessionID() string {
	if s.IsGroup {
		return s.GroupID
	}
	return string(s.CharacterID)
}

func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

func (s *Session) AppendSystem(text string) {
	s.Append(NewSystemMessage(text, s.Clock.Now()))
}

func (s *Session) Notify(text string) {
	s.Notifications = append(s.Notifications, text)
}

func (s *Session) IsWorking() bool {
	return s.ActiveJobID != ""
}

// Restart resets the session to its initial values: clock back to the
// scenario start, log, deliveries, notifications and claim markers cleared.
func (s *Session) Restart(ch Character, now time.Time) {
	s.Clock.Reset(VirtualTimeOf(ch.Scenario.StartTime(now)))
	s.Messages = nil
	s.Pending = nil
	s.Notifications = nil
	s.ActiveJobID = ""
	s.LastSalaryClaim = map[JobID]string{}
}

// SchedulerState is the persisted slice of scheduler bookkeeping. It rides
// along in the snapshot as an optional block; external tooling that only
// understands the base snapshot shape can ignore it.
type SchedulerState struct {
	ActiveJobID     JobID            `json:"activeJobId,omitempty"`
	LastSalaryClaim map[JobID]string `json:"lastSalaryClaim,omitempty"`
	Pending         []Delivery       `json:"pendingDeliveries,omitempty"`
}

// Snapshot is the unit of persistence and the external contract consumed by
// import/export tooling. Field names are part of that contract.
type Snapshot struct {
	CharacterID    string          `json:"characterId,omitempty"`
	GroupID        string          `json:"groupId,omitempty"`
	IsGroup        bool            `json:"isGroup"`
	ParticipantIDs []string        `json:"participantIds"`
	Messages       []Message       `json:"messages"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	VirtualTime    VirtualTime     `json:"virtualTime"`
	Scheduler      *SchedulerState `json:"scheduler,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	participants := make([]string, 0, len(s.ParticipantIDs))
	for _, id := range s.ParticipantIDs {
		participants = append(participants, string(id))
	}

	snap := Snapshot{
		CharacterID:    string(s.CharacterID),
		GroupID:        s.GroupID,
		IsGroup:        s.IsGroup,
		ParticipantIDs: participants,
		Messages:       s.Messages,
		LastUpdated:    s.LastUpdated,
		VirtualTime:    s.Clock.Now(),
	}

	if s.ActiveJobID != "" || len(s.LastSalaryClaim) > 0 || len(s.Pending) > 0 {
		snap.Scheduler = &SchedulerState{
			ActiveJobID:     s.ActiveJobID,
			LastSalaryClaim: s.LastSalaryClaim,
			Pending:         s.Pending,
		}
	}

	return snap
}

// SessionFromSnapshot rehydrates a session from its persisted form.
func SessionFromSnapshot(snap Snapshot) *Session {
	participants := make([]CharacterID, 0, len(snap.ParticipantIDs))
	for _, id := range snap.ParticipantIDs {
		participants = append(participants, CharacterID(id))
	}

	s := &Session{
		CharacterID:     CharacterID(snap.CharacterID),
		GroupID:         snap.GroupID,
		IsGroup:         snap.IsGroup,
		ParticipantIDs:  participants,
		Messages:        snap.Messages,
		Clock:           NewVirtualClock(snap.VirtualTime),
		LastSalaryClaim: map[JobID]string{},
		LastUpdated:     snap.LastUpdated,
	}

	if snap.Scheduler != nil {
		s.ActiveJobID = snap.Scheduler.ActiveJobID
		s.Pending = snap.Scheduler.Pending
		if snap.Scheduler.LastSalaryClaim != nil {
			s.LastSalaryClaim = snap.Scheduler.LastSalaryClaim
		}
	}

	return s
}
