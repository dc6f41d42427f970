package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/platform/platformtest"
	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/ferdian3456/staffroster/internal/usecase"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	guildID           snowflake.ID = 1
	staffChannelID    snowflake.ID = 10
	moderationChannel snowflake.ID = 11
	logChannelID      snowflake.ID = 12

	adminID     snowflake.ID = 100
	moderatorID snowflake.ID = 101
	memberID    snowflake.ID = 102
	outsiderID  snowflake.ID = 103

	staffRoleID     snowflake.ID = 200
	helperRoleID    snowflake.ID = 201
	moderatorRoleID snowflake.ID = 202
)

var (
	admin     = model.Caller{Id: adminID, Administrator: true}
	moderator = model.Caller{Id: moderatorID, RoleIds: []snowflake.ID{moderatorRoleID}}
	outsider  = model.Caller{Id: outsiderID}
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store      *repository.MemoryDocumentStore
	state      *repository.StateRepository
	flows      *repository.MemoryFlowRepository
	platform   *platformtest.Fake
	clock      *clock
	roster     *usecase.RosterUsecase
	moderation *usecase.ModerationUsecase
	audit      *usecase.AuditUsecase
	settings   *usecase.SettingsUsecase
	flow       *usecase.FlowUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zaptest.NewLogger(t)
	f := &fixture{
		store:    repository.NewMemoryDocumentStore(),
		flows:    repository.NewMemoryFlowRepository(log),
		platform: platformtest.New(),
		clock:    &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}

	f.platform.AddChannel(staffChannelID)
	f.platform.AddChannel(moderationChannel)
	f.platform.AddChannel(logChannelID)

	f.state = repository.NewStateRepository(log, f.store)
	f.roster = usecase.NewRosterUsecase(f.state, f.platform, log)
	f.moderation = usecase.NewModerationUsecase(f.state, f.roster, log)
	f.audit = usecase.NewAuditUsecase(f.state, f.platform, log, nil)
	f.settings = usecase.NewSettingsUsecase(f.state, f.roster, f.platform, log)
	f.flow = usecase.NewFlowUsecase(f.state, f.flows, f.roster, f.moderation, f.audit, f.platform, log, 2*time.Minute)
	f.flow.Now = f.clock.Now

	return f
}

func (f *fixture) configure(t *testing.T, mutate func(guild *model.Guild)) {
	t.Helper()

	_, err := f.state.Update(context.Background(), func(guild *model.Guild) error {
		mutate(guild)
		return nil
	})
	require.NoError(t, err)
}

func (f *fixture) read(t *testing.T) model.Guild {
	t.Helper()

	guild, err := f.state.Read(context.Background())
	require.NoError(t, err)
	return guild
}

// withStaffTable configures the staff channel, one tracked role holding
// the given members and the moderator role.
func (f *fixture) withStaffTable(t *testing.T, members ...model.Member) {
	t.Helper()

	f.platform.AddRole(staffRoleID, "Staff", members...)
	f.platform.AddRole(moderatorRoleID, "Moderators")
	f.configure(t, func(guild *model.Guild) {
		guild.Config.StaffChannelId = model.IDPtr(staffChannelID)
		guild.State.StaffRoles = append(guild.State.StaffRoles, staffRoleID)
		guild.State.ModeratorRoles = append(guild.State.ModeratorRoles, moderatorRoleID)
	})
}

func member(id snowflake.ID, name string) model.Member {
	return model.Member{Id: id, DisplayName: name}
}
