package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/usecase"
	"github.com/ferdian3456/staffroster/internal/util"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAuditWithoutLogChannelIsNoop(t *testing.T) {
	f := newFixture(t)

	f.audit.Emit(context.Background(), guildID, "nothing to see")

	assert.Zero(t, f.platform.Sends)
}

func TestAuditSendsTextVerbatim(t *testing.T) {
	f := newFixture(t)
	f.configure(t, func(guild *model.Guild) {
		guild.Config.LogChannelId = model.IDPtr(logChannelID)
	})

	f.audit.Emit(context.Background(), guildID, "⚠️ <@1> received a warning from <@2>")

	sent := f.platform.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, logChannelID, sent[0].ChannelId)
	assert.Equal(t, "⚠️ <@1> received a warning from <@2>", sent[0].Message.Content)
}

func TestAuditFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.configure(t, func(guild *model.Guild) {
		guild.Config.LogChannelId = model.IDPtr(logChannelID)
	})
	f.platform.SendErr = errors.New("missing access")

	assert.NotPanics(t, func() {
		f.audit.Emit(context.Background(), guildID, "entry")
	})

	f.store.LoadErr = errors.New("disk gone")
	assert.NotPanics(t, func() {
		f.audit.Emit(context.Background(), guildID, "entry")
	})
}

func TestAuditMailCopyConfiguration(t *testing.T) {
	config := koanf.New(".")
	require.NoError(t, config.Set("SMTP_HOST", "smtp.example.com"))
	require.NoError(t, config.Set("SMTP_PORT", 587))
	require.NoError(t, config.Set("SENDER_EMAIL", "bot@example.com"))
	require.NoError(t, config.Set("AUDIT_MAIL_TO", "mods@example.com, , leads@example.com"))

	audit := usecase.NewAuditUsecase(nil, nil, zaptest.NewLogger(t), config)

	require.NotNil(t, audit.Mailer)
	assert.True(t, audit.Mailer.Enabled())
	assert.Equal(t, 587, audit.Mailer.(util.Mailer).Port)
	assert.Equal(t, []string{"mods@example.com", "leads@example.com"}, audit.MailTo)

	disabled := usecase.NewAuditUsecase(nil, nil, zaptest.NewLogger(t), nil)
	assert.Nil(t, disabled.Mailer)
	assert.Empty(t, disabled.MailTo)
}

type mail struct {
	to      []string
	subject string
	body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail
}

func (m *recordingMailer) Enabled() bool { return true }

func (m *recordingMailer) Send(to []string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, mail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) Sent() []mail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mail(nil), m.sent...)
}

func TestAuditMailsCopyWithoutLogChannel(t *testing.T) {
	f := newFixture(t)
	mailer := &recordingMailer{}
	f.audit.Mailer = mailer
	f.audit.MailTo = []string{"mods@example.com"}

	f.audit.Emit(context.Background(), guildID, "➕ Added role **Helpers** to the staff table")

	require.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)
	sent := mailer.Sent()[0]
	assert.Equal(t, []string{"mods@example.com"}, sent.to)
	assert.Equal(t, "➕ Added role **Helpers** to the staff table", sent.body)
	assert.Zero(t, f.platform.Sends)
}

func TestAuditMailsCopyAlongsideLogChannel(t *testing.T) {
	f := newFixture(t)
	f.configure(t, func(guild *model.Guild) {
		guild.Config.LogChannelId = model.IDPtr(logChannelID)
	})
	mailer := &recordingMailer{}
	f.audit.Mailer = mailer
	f.audit.MailTo = []string{"mods@example.com"}

	f.audit.Emit(context.Background(), guildID, "entry")

	require.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)
	require.Len(t, f.platform.Sent(), 1)
	assert.Equal(t, logChannelID, f.platform.Sent()[0].ChannelId)
}
