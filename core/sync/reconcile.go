package sync

import (
	"context"

	"sheetcal/core/eventstore"
	"sheetcal/core/mapstore"

	"go.uber.org/zap"
)

// Reconcile drives the event store toward the given intents.
//
// For each intent, in source order: a key already in the mapping whose event
// is still present in the snapshot gets an in-place update (or nothing, when
// the stored fields already match); every other key gets a fresh create, and
// the mapping records the new identifier. Afterwards every mapping entry with
// no matching intent is deleted from the store and dropped from the mapping.
// The entry is dropped even when the backend rejects the delete, because the
// key can never reappear in the source and a retry would target the same dead
// identifier forever.
//
// Backend failures are logged and counted, never fatal: one bad event must not
// stall the rest of the run. The mapping is mutated in place; callers persist
// it after the run. Under Options.DryRun the full plan is counted but no
// writes and no mapping mutations happen.
func Reconcile(ctx context.Context, col eventstore.Collection, snapshot map[string]eventstore.Event, mapping mapstore.Mapping, intents []Intent, opts Options, log *zap.Logger) Report {
	var report Report

	currentKeys := make(map[string]struct{}, len(intents))
	for _, intent := range intents {
		key := Key(intent)
		currentKeys[key] = struct{}{}
		fields := intent.Fields()

		if entry, mapped := mapping[key]; mapped {
			if live, ok := snapshot[entry.UID]; ok {
				if sameFields(live.Fields, fields) {
					report.Unchanged++
					continue
				}
				if opts.DryRun {
					report.Updated++
					continue
				}
				if err := col.UpdateEvent(ctx, entry.UID, fields); err != nil {
					log.Warn("failed to update event", zap.String("key", key), zap.String("uid", entry.UID), zap.Error(err))
					report.Failed++
					continue
				}
				log.Debug("updated event", zap.String("key", key), zap.String("uid", entry.UID))
				report.Updated++
				continue
			}
			// The mapped event vanished from the store, so recreate it and
			// let the new identifier replace the stale entry.
			log.Debug("mapped event missing from store, recreating", zap.String("key", key), zap.String("uid", entry.UID))
		}

		if opts.DryRun {
			report.Created++
			continue
		}
		id, err := col.CreateEvent(ctx, fields)
		if err != nil {
			log.Warn("failed to create event", zap.String("key", key), zap.Error(err))
			report.Failed++
			continue
		}
		mapping[key] = mapstore.Entry{
			UID:           id,
			OriginalStart: FormatInstant(intent.OriginalStart),
			OriginalEnd:   FormatInstant(intent.OriginalEnd),
		}
		log.Debug("created event", zap.String("key", key), zap.String("uid", id))
		report.Created++
	}

	for key, entry := range mapping {
		if _, ok := currentKeys[key]; ok {
			continue
		}
		_, live := snapshot[entry.UID]
		if opts.DryRun {
			if live {
				report.Deleted++
			}
			continue
		}
		if live {
			if err := col.DeleteEvent(ctx, entry.UID); err != nil {
				log.Warn("failed to delete event", zap.String("key", key), zap.String("uid", entry.UID), zap.Error(err))
				report.Failed++
			} else {
				log.Debug("deleted event", zap.String("key", key), zap.String("uid", entry.UID))
				report.Deleted++
			}
		}
		delete(mapping, key)
	}

	return report
}

func sameFields(a, b eventstore.Fields) bool {
	return a.Summary == b.Summary &&
		a.Description == b.Description &&
		a.Location == b.Location &&
		a.AllDay == b.AllDay &&
		a.Start.Equal(b.Start) &&
		a.End.Equal(b.End)
}
