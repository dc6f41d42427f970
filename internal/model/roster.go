package model

import "github.com/disgoorg/snowflake/v2"

type Role struct {
	Id   snowflake.ID
	Name string
}

type Member struct {
	Id          snowflake.ID
	DisplayName string
}

func (m Member) Mention() string {
	return Mention(m.Id)
}

func Mention(id snowflake.ID) string {
	return "<@" + id.String() + ">"
}

// GuildMember is one guild member together with the roles it holds.
type GuildMember struct {
	Member
	RoleIds []snowflake.ID
}

// RoleMembers is the live membership of one role in platform order.
type RoleMembers struct {
	Role    Role
	Members []Member
}

type RosterLine struct {
	Member Member
	Warn   int
	Strike int
	Text   string
}

// RosterRow is one section of the roster. A vacant row carries no lines.
type RosterRow struct {
	Role   Role
	Vacant bool
	Lines  []RosterLine
}

type Projection struct {
	Rows         []RosterRow
	Materialized []snowflake.ID
}

type ButtonStyle int

const (
	ButtonSecondary ButtonStyle = iota
	ButtonPrimary
	ButtonSuccess
	ButtonDanger
)

type Button struct {
	CustomId string
	Label    string
	Style    ButtonStyle
}

type EmbedField struct {
	Name  string
	Value string
}

type Embed struct {
	Title  string
	Fields []EmbedField
}

// OutgoingMessage is a platform neutral message payload.
type OutgoingMessage struct {
	Content string
	Embed   *Embed
	Buttons []Button
}
