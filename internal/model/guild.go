package model

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// GuildConfig is the persisted configuration document. Nil fields are
// unset.
type GuildConfig struct {
	StaffChannelId      *snowflake.ID `json:"staffChannelId"`
	ModerationChannelId *snowflake.ID `json:"moderationChannelId"`
	LogChannelId        *snowflake.ID `json:"logChannelId"`
	StaffMessageId      *snowflake.ID `json:"staffMessageId"`
}

type CounterRecord struct {
	Warn   int `json:"warn"`
	Strike int `json:"strike"`
}

// GuildState is the persisted state document: tracked roles in display
// order, moderator roles and per-member counters keyed by member id.
type GuildState struct {
	StaffRoles     []snowflake.ID           `json:"staffRoles"`
	ModeratorRoles []snowflake.ID           `json:"moderatorRoles"`
	Users          map[string]CounterRecord `json:"users"`
}

// Guild bundles both documents as one snapshot.
type Guild struct {
	Config GuildConfig
	State  GuildState
}

func NewGuildState() GuildState {
	return GuildState{
		StaffRoles:     []snowflake.ID{},
		ModeratorRoles: []snowflake.ID{},
		Users:          map[string]CounterRecord{},
	}
}

// Normalize replaces nil collections with empty ones so the encoded
// document always carries every key.
func (s *GuildState) Normalize() {
	if s.StaffRoles == nil {
		s.StaffRoles = []snowflake.ID{}
	}
	if s.ModeratorRoles == nil {
		s.ModeratorRoles = []snowflake.ID{}
	}
	if s.Users == nil {
		s.Users = map[string]CounterRecord{}
	}
}

func (s GuildState) IsStaffRole(roleID snowflake.ID) bool {
	return slices.Contains(s.StaffRoles, roleID)
}

func (s GuildState) IsModeratorRole(roleID snowflake.ID) bool {
	return slices.Contains(s.ModeratorRoles, roleID)
}

// Clone returns a deep copy, used to compare before and after snapshots.
func (g Guild) Clone() Guild {
	clone := Guild{
		Config: GuildConfig{
			StaffChannelId:      cloneID(g.Config.StaffChannelId),
			ModerationChannelId: cloneID(g.Config.ModerationChannelId),
			LogChannelId:        cloneID(g.Config.LogChannelId),
			StaffMessageId:      cloneID(g.Config.StaffMessageId),
		},
		State: GuildState{
			StaffRoles:     slices.Clone(g.State.StaffRoles),
			ModeratorRoles: slices.Clone(g.State.ModeratorRoles),
			Users:          make(map[string]CounterRecord, len(g.State.Users)),
		},
	}
	for id, record := range g.State.Users {
		clone.State.Users[id] = record
	}
	clone.State.Normalize()
	return clone
}

func cloneID(id *snowflake.ID) *snowflake.ID {
	if id == nil {
		return nil
	}
	value := *id
	return &value
}

// IDPtr is a small helper for setting optional config fields.
func IDPtr(id snowflake.ID) *snowflake.ID {
	return &id
}
