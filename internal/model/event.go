package model

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// Caller identifies who triggered an event and the privileges they had
// at that moment.
type Caller struct {
	Id            snowflake.ID
	Administrator bool
	RoleIds       []snowflake.ID
}

func (c Caller) HasAnyRole(roleIDs []snowflake.ID) bool {
	for _, id := range c.RoleIds {
		if slices.Contains(roleIDs, id) {
			return true
		}
	}
	return false
}

type InteractionKind int

const (
	InteractionCommand InteractionKind = iota + 1
	InteractionButton
)

type Interaction struct {
	Id        snowflake.ID
	Token     string
	Kind      InteractionKind
	Name      string
	GuildId   snowflake.ID
	ChannelId snowflake.ID
	Caller    Caller
}

type IncomingMessage struct {
	GuildId   snowflake.ID
	ChannelId snowflake.ID
	AuthorId  snowflake.ID
	Content   string
	Mentions  []snowflake.ID
	IsBot     bool
}

// MemberUpdate signals that a member joined, left or changed roles.
type MemberUpdate struct {
	GuildId  snowflake.ID
	MemberId snowflake.ID
}
