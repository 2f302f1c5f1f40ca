// Package events handles event emission for wine library lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/kafka"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission for the wine library
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitWineImported emits a wine.imported event for a newly stored wine
func (e *Emitter) EmitWineImported(ctx context.Context, wine *models.StoredWine) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitWineImported")
	defer span.End()

	data, _ := json.Marshal(wine.WineRecord)

	event := &kafka.WineEvent{
		EventType:   "wine.imported",
		WineID:      wine.ID,
		Fingerprint: wine.Fingerprint,
		SourceFile:  wine.SourceFile,
		Data:        data,
	}

	if err := e.producer.PublishWineEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit wine.imported event")
		return err
	}

	return nil
}

// EmitWineMerged emits a wine.merged event with the names that collapsed
// into the stored record
func (e *Emitter) EmitWineMerged(ctx context.Context, wine *models.StoredWine, mergedNames []string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitWineMerged")
	defer span.End()

	mergeData := map[string]any{
		"schema_version": SchemaVersion,
		"merged_count":   len(mergedNames),
		"record":         wine.WineRecord,
	}
	data, _ := json.Marshal(mergeData)

	event := &kafka.WineEvent{
		EventType:   "wine.merged",
		WineID:      wine.ID,
		Fingerprint: wine.Fingerprint,
		SourceFile:  wine.SourceFile,
		Data:        data,
		MergedNames: mergedNames,
	}

	if err := e.producer.PublishWineEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit wine.merged event")
		return err
	}

	return nil
}

// EmitWineDeleted emits a wine.deleted event
func (e *Emitter) EmitWineDeleted(ctx context.Context, wineID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitWineDeleted")
	defer span.End()

	event := &kafka.WineEvent{
		EventType: "wine.deleted",
		WineID:    wineID,
	}

	if err := e.producer.PublishWineEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit wine.deleted event")
		return err
	}

	return nil
}
