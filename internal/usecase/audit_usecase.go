package usecase

import (
	"context"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/ferdian3456/staffroster/internal/platform"
	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/ferdian3456/staffroster/internal/util"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// AuditUsecase announces mutations in the configured log channel and, when
// mail is configured, mails a copy of every entry whether or not a log
// channel is set. Delivery is best effort: failures are logged and never
// returned.
type AuditUsecase struct {
	StateRepository *repository.StateRepository
	Platform        platform.Platform
	Log             *zap.Logger

	Mailer util.MailSender
	MailTo []string
}

func NewAuditUsecase(stateRepository *repository.StateRepository, platform platform.Platform, zap *zap.Logger, koanf *koanf.Koanf) *AuditUsecase {
	usecase := &AuditUsecase{
		StateRepository: stateRepository,
		Platform:        platform,
		Log:             zap,
	}

	if koanf != nil {
		mailer := util.Mailer{
			Host:           koanf.String("SMTP_HOST"),
			Port:           koanf.Int("SMTP_PORT"),
			SenderName:     koanf.String("SENDER_NAME"),
			SenderEmail:    koanf.String("SENDER_EMAIL"),
			SenderPassword: koanf.String("SENDER_PASSWORD"),
		}
		if mailer.Enabled() {
			usecase.Mailer = mailer
		}
		for _, address := range strings.Split(koanf.String("AUDIT_MAIL_TO"), ",") {
			if address = strings.TrimSpace(address); address != "" {
				usecase.MailTo = append(usecase.MailTo, address)
			}
		}
	}

	return usecase
}

func (usecase *AuditUsecase) Emit(ctx context.Context, guildID snowflake.ID, text string) {
	log := observability.WithContext(ctx, usecase.Log).With(zap.String("guildId", guildID.String()))

	usecase.mailCopy(log, text)

	guild, err := usecase.StateRepository.Read(ctx)
	if err != nil {
		log.Warn("audit entry dropped, state unavailable", zap.Error(err))
		return
	}

	if guild.Config.LogChannelId == nil {
		return
	}

	_, err = usecase.Platform.SendMessage(ctx, *guild.Config.LogChannelId, model.OutgoingMessage{Content: text})
	if err != nil {
		log.Warn("failed to deliver audit entry", zap.String("channelId", guild.Config.LogChannelId.String()), zap.Error(err))
	}
}

func (usecase *AuditUsecase) mailCopy(log *zap.Logger, text string) {
	if usecase.Mailer == nil || !usecase.Mailer.Enabled() || len(usecase.MailTo) == 0 {
		return
	}

	go func() {
		err := usecase.Mailer.Send(usecase.MailTo, "Staff roster audit", text)
		if err != nil {
			log.Warn("failed to mail audit entry", zap.Error(err))
		}
	}()
}
