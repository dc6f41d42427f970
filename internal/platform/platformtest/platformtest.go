// Package platformtest is an in-memory platform used by tests.
package platformtest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/platform"
)

type Fake struct {
	mu       sync.Mutex
	nextId   snowflake.ID
	roles    map[snowflake.ID]model.Role
	members  []model.GuildMember
	channels map[snowflake.ID]map[snowflake.ID]model.OutgoingMessage
	sent     []SentMessage

	Sends            int
	Edits            int
	GuildMemberWalks int

	SendErr error
	EditErr error
	RoleErr error
}

type SentMessage struct {
	ChannelId snowflake.ID
	MessageId snowflake.ID
	Message   model.OutgoingMessage
}

func New() *Fake {
	return &Fake{
		nextId:   1000,
		roles:    map[snowflake.ID]model.Role{},
		channels: map[snowflake.ID]map[snowflake.ID]model.OutgoingMessage{},
	}
}

func (f *Fake) AddRole(id snowflake.ID, name string, members ...model.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.roles[id] = model.Role{Id: id, Name: name}
	f.assign(id, members)
}

// SetMembers makes members the exact holders of a role. Members the guild
// has not seen yet join at the end of the member list.
func (f *Fake) SetMembers(roleID snowflake.ID, members ...model.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.assign(roleID, members)
}

func (f *Fake) DeleteRole(id snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.roles, id)
	f.assign(id, nil)
}

func (f *Fake) assign(roleID snowflake.ID, members []model.Member) {
	holders := make(map[snowflake.ID]struct{}, len(members))
	for _, member := range members {
		holders[member.Id] = struct{}{}
		if !slices.ContainsFunc(f.members, func(m model.GuildMember) bool { return m.Id == member.Id }) {
			f.members = append(f.members, model.GuildMember{Member: member})
		}
	}

	for i := range f.members {
		roles := slices.DeleteFunc(f.members[i].RoleIds, func(id snowflake.ID) bool { return id == roleID })
		if _, ok := holders[f.members[i].Id]; ok {
			roles = append(roles, roleID)
		}
		f.members[i].RoleIds = roles
	}
}

func (f *Fake) AddChannel(id snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.channels[id] == nil {
		f.channels[id] = map[snowflake.ID]model.OutgoingMessage{}
	}
}

func (f *Fake) DeleteMessage(channelID snowflake.ID, messageID snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.channels[channelID], messageID)
}

// Messages returns the live messages of a channel.
func (f *Fake) Messages(channelID snowflake.ID) map[snowflake.ID]model.OutgoingMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := map[snowflake.ID]model.OutgoingMessage{}
	for id, message := range f.channels[channelID] {
		out[id] = message
	}
	return out
}

func (f *Fake) Message(channelID snowflake.ID, messageID snowflake.ID) (model.OutgoingMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	message, ok := f.channels[channelID][messageID]
	return message, ok
}

// Sent returns every message sent so far, in order.
func (f *Fake) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]SentMessage(nil), f.sent...)
}

func (f *Fake) Role(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) (model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.RoleErr != nil {
		return model.Role{}, f.RoleErr
	}

	role, ok := f.roles[roleID]
	if !ok {
		return model.Role{}, fmt.Errorf("role %s: %w", roleID, platform.ErrNotFound)
	}

	return role, nil
}

func (f *Fake) GuildMembers(ctx context.Context, guildID snowflake.ID) ([]model.GuildMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GuildMemberWalks++

	out := make([]model.GuildMember, 0, len(f.members))
	for _, member := range f.members {
		out = append(out, model.GuildMember{
			Member:  member.Member,
			RoleIds: append([]snowflake.ID(nil), member.RoleIds...),
		})
	}
	return out, nil
}

func (f *Fake) SendMessage(ctx context.Context, channelID snowflake.ID, message model.OutgoingMessage) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendErr != nil {
		return 0, f.SendErr
	}

	channel, ok := f.channels[channelID]
	if !ok {
		return 0, fmt.Errorf("channel %s: %w", channelID, platform.ErrNotFound)
	}

	f.nextId++
	channel[f.nextId] = message
	f.Sends++
	f.sent = append(f.sent, SentMessage{ChannelId: channelID, MessageId: f.nextId, Message: message})

	return f.nextId, nil
}

func (f *Fake) FetchMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.channels[channelID][messageID]; !ok {
		return fmt.Errorf("message %s: %w", messageID, platform.ErrNotFound)
	}

	return nil
}

func (f *Fake) EditMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, message model.OutgoingMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.EditErr != nil {
		return f.EditErr
	}

	if _, ok := f.channels[channelID][messageID]; !ok {
		return fmt.Errorf("message %s: %w", messageID, platform.ErrNotFound)
	}

	f.channels[channelID][messageID] = message
	f.Edits++

	return nil
}

// Reply is one answer captured by Responder.
type Reply struct {
	InteractionToken string
	FollowUp         bool
	Deferred         bool
	Message          model.OutgoingMessage
}

// Responder records interaction replies.
type Responder struct {
	mu      sync.Mutex
	replies []Reply

	Err error
}

func (r *Responder) Respond(ctx context.Context, interaction model.Interaction, message model.OutgoingMessage) error {
	return r.record(Reply{InteractionToken: interaction.Token, Message: message})
}

func (r *Responder) Defer(ctx context.Context, interaction model.Interaction) error {
	return r.record(Reply{InteractionToken: interaction.Token, Deferred: true})
}

func (r *Responder) FollowUp(ctx context.Context, interactionToken string, message model.OutgoingMessage) error {
	return r.record(Reply{InteractionToken: interactionToken, FollowUp: true, Message: message})
}

func (r *Responder) record(reply Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	r.replies = append(r.replies, reply)
	return nil
}

func (r *Responder) Replies() []Reply {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Reply(nil), r.replies...)
}

// Last returns the most recent reply.
func (r *Responder) Last() (Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.replies) == 0 {
		return Reply{}, errors.New("no replies recorded")
	}
	return r.replies[len(r.replies)-1], nil
}
