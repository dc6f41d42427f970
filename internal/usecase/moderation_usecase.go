package usecase

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/observability"
	"github.com/ferdian3456/staffroster/internal/repository"
	"go.uber.org/zap"
)

// ModerationUsecase owns the per-member warn and strike counters.
type ModerationUsecase struct {
	StateRepository *repository.StateRepository
	RosterUsecase   *RosterUsecase
	Log             *zap.Logger
}

func NewModerationUsecase(stateRepository *repository.StateRepository, rosterUsecase *RosterUsecase, zap *zap.Logger) *ModerationUsecase {
	return &ModerationUsecase{
		StateRepository: stateRepository,
		RosterUsecase:   rosterUsecase,
		Log:             zap,
	}
}

func (usecase *ModerationUsecase) GetOrCreate(ctx context.Context, memberID snowflake.ID) (model.CounterRecord, error) {
	var record model.CounterRecord

	_, err := usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		existing, ok := guild.State.Users[memberID.String()]
		if !ok {
			guild.State.Users[memberID.String()] = model.CounterRecord{}
		}
		record = existing
		return nil
	})
	if err != nil {
		return model.CounterRecord{}, err
	}

	return record, nil
}

// Counters looks up a member without creating a record.
func (usecase *ModerationUsecase) Counters(ctx context.Context, memberID snowflake.ID) (model.CounterRecord, bool, error) {
	guild, err := usecase.StateRepository.Read(ctx)
	if err != nil {
		return model.CounterRecord{}, false, err
	}

	record, ok := guild.State.Users[memberID.String()]
	return record, ok, nil
}

func (usecase *ModerationUsecase) IncrementWarn(ctx context.Context, guildID snowflake.ID, memberID snowflake.ID) (int, error) {
	ctx, span := tracer.Start(ctx, "ModerationUsecase.IncrementWarn")
	defer span.End()

	return usecase.increment(ctx, guildID, memberID, func(record *model.CounterRecord) int {
		record.Warn++
		return record.Warn
	})
}

// IncrementStrike is not reachable from any Discord control yet.
func (usecase *ModerationUsecase) IncrementStrike(ctx context.Context, guildID snowflake.ID, memberID snowflake.ID) (int, error) {
	ctx, span := tracer.Start(ctx, "ModerationUsecase.IncrementStrike")
	defer span.End()

	return usecase.increment(ctx, guildID, memberID, func(record *model.CounterRecord) int {
		record.Strike++
		return record.Strike
	})
}

// increment persists the new count before returning. A failed roster
// re-publish is logged, the stored increment stands.
func (usecase *ModerationUsecase) increment(ctx context.Context, guildID snowflake.ID, memberID snowflake.ID, bump func(record *model.CounterRecord) int) (int, error) {
	log := observability.WithContext(ctx, usecase.Log)

	var count int
	_, err := usecase.StateRepository.Update(ctx, func(guild *model.Guild) error {
		record := guild.State.Users[memberID.String()]
		count = bump(&record)
		guild.State.Users[memberID.String()] = record
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("counter incremented", zap.String("memberId", memberID.String()), zap.Int("count", count))

	if usecase.RosterUsecase != nil {
		err = usecase.RosterUsecase.Sync(ctx, guildID)
		if err != nil {
			log.Error("failed to republish roster after increment", zap.Error(err))
		}
	}

	return count, nil
}
