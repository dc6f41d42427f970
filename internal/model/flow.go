package model

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

type FlowKind string

const (
	FlowAddStaffRole     FlowKind = "add_staff_role"
	FlowAddModeratorRole FlowKind = "add_moderator_role"
	FlowIssueWarning     FlowKind = "issue_warning"
)

type FlowState string

const (
	FlowAwaitingInput FlowState = "awaiting_input"
	FlowResolved      FlowState = "resolved"
	FlowAbandoned     FlowState = "abandoned"
)

type FlowKey struct {
	GuildId   snowflake.ID
	ChannelId snowflake.ID
	CallerId  snowflake.ID
}

// PendingFlow is a flow suspended until its caller answers.
type PendingFlow struct {
	Id        uuid.UUID    `json:"id"`
	Kind      FlowKind     `json:"kind"`
	State     FlowState    `json:"state"`
	GuildId   snowflake.ID `json:"guildId"`
	ChannelId snowflake.ID `json:"channelId"`
	CallerId  snowflake.ID `json:"callerId"`
	StartedAt time.Time    `json:"startedAt"`
	ExpiresAt time.Time    `json:"expiresAt"`

	// InteractionToken lets the follow-up answer privately to the caller.
	InteractionToken string `json:"interactionToken"`
}

func (p PendingFlow) Key() FlowKey {
	return FlowKey{GuildId: p.GuildId, ChannelId: p.ChannelId, CallerId: p.CallerId}
}

func (p PendingFlow) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

type Prompt struct {
	Text string
}

// FlowOutcome reports how a follow-up message resolved a flow.
type FlowOutcome struct {
	Flow    PendingFlow
	State   FlowState
	Message string
}
