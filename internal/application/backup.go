package application

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
	"github.com/rs/zerolog"
)

type BackupOptions struct {
	Folder  string
	Workers int

	// SchemaKeys limits the backup; empty means every schema on the site.
	SchemaKeys []string
}

// Backer exports schemas into a timestamped snapshot tree and zips it.
// Object data, history and comments are fetched with the shared worker
// pool; a single unreadable object degrades the snapshot instead of
// aborting it.
type Backer struct {
	gw      domain.Gateway
	store   domain.SnapshotStore
	journal domain.RunJournal
	log     zerolog.Logger
	opts    BackupOptions
}

func NewBacker(gw domain.Gateway, store domain.SnapshotStore, journal domain.RunJournal, log zerolog.Logger, opts BackupOptions) *Backer {
	if opts.Workers < 1 {
		opts.Workers = 10
	}
	return &Backer{gw: gw, store: store, journal: journal, log: log, opts: opts}
}

// Run exports the selected schemas. It returns the path of the finished
// zip archive.
func (b *Backer) Run(ctx context.Context) (archive string, err error) {
	stamp := time.Now().Format("2006-01-02_15-04-05")
	prefix := filepath.Join(b.opts.Folder, stamp)

	schemas, err := b.resolveSchemas(ctx)
	if err != nil {
		return "", err
	}

	run, err := b.journal.StartRun(ctx, domain.RunKindBackup, joinKeys(schemas))
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	saved, failed := 0, 0
	defer func() {
		outcome := "completed"
		if err != nil {
			outcome = "failed"
		}
		if jerr := b.journal.FinishRun(context.Background(), run.ID, outcome, saved, 0, 0, failed); jerr != nil {
			b.log.Warn().Err(jerr).Msg("journal finish failed")
		}
	}()

	if err := b.store.SaveJSON("objectschemas", filepath.Join(prefix, "config"), schemas); err != nil {
		return "", err
	}

	b.log.Info().Msg("start backup of:")
	for _, schema := range schemas {
		b.log.Info().Str("name", schema.Name).Str("key", schema.Key).Msg("schema")
		location := filepath.Join(prefix, schema.Key)
		schemaSaved, schemaFailed, err := b.backupSchema(ctx, schema, location)
		saved += schemaSaved
		failed += schemaFailed
		if err != nil {
			return "", err
		}
	}

	archive = filepath.Join(b.opts.Folder, fmt.Sprintf("assets-backup-%s.zip", stamp))
	if err := b.store.Zip(prefix, archive); err != nil {
		return "", fmt.Errorf("zip backup: %w", err)
	}
	b.log.Info().Str("archive", archive).Msg("backup archived")
	return archive, nil
}

func (b *Backer) resolveSchemas(ctx context.Context) ([]domain.ObjectSchema, error) {
	if len(b.opts.SchemaKeys) == 0 {
		schemas, err := b.gw.ObjectSchemas(ctx)
		if err != nil {
			return nil, err
		}
		if len(schemas) == 0 {
			return nil, fmt.Errorf("no object schemas found to backup")
		}
		return schemas, nil
	}

	var schemas []domain.ObjectSchema
	for _, key := range b.opts.SchemaKeys {
		schema, err := b.gw.ObjectSchemaByKey(ctx, key)
		if err != nil {
			b.log.Warn().Str("key", key).Msg("object schema not found, skipping")
			continue
		}
		schemas = append(schemas, schema)
	}
	if len(schemas) == 0 {
		return nil, fmt.Errorf("no valid object schemas found to backup")
	}
	return schemas, nil
}

func (b *Backer) backupSchema(ctx context.Context, schema domain.ObjectSchema, location string) (saved, failed int, err error) {
	configDir := filepath.Join(location, "config")

	if err := b.store.SaveJSON("objectschema", configDir, schema); err != nil {
		return saved, failed, err
	}
	b.log.Info().Msg("   - objectschema")

	props, err := b.gw.SchemaProperties(ctx, schema.ID)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON("objectschema_properties", configDir, props); err != nil {
		return saved, failed, err
	}
	b.log.Info().Msg("   - object schema properties")

	globalRefs, err := b.gw.GlobalReferenceTypes(ctx)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON("global_referencetypes", configDir, globalRefs); err != nil {
		return saved, failed, err
	}
	b.log.Info().Msg("   - global referencetypes")

	globalStatuses, err := b.gw.GlobalStatusTypes(ctx)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON("global_statustypes", configDir, globalStatuses); err != nil {
		return saved, failed, err
	}
	b.log.Info().Msg("   - global statustypes")

	scopedRefs, err := b.gw.ReferenceTypes(ctx, schema.ID)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON("referencetypes", configDir, scopedRefs); err != nil {
		return saved, failed, err
	}
	b.log.Info().Msg("   - schema referencetypes")

	scopedStatuses, err := b.gw.StatusTypes(ctx, schema.ID)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON("statustypes", configDir, scopedStatuses); err != nil {
		return saved, failed, err
	}
	b.log.Info().Msg("   - schema statustypes")

	types, err := b.gw.ObjectTypes(ctx, schema.ID)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON("objecttypes", configDir, types); err != nil {
		return saved, failed, err
	}
	b.log.Info().Int("count", len(types)).Msg("   - objecttypes")

	for i, objectType := range types {
		b.log.Info().Str("name", objectType.Name).Int("index", i+1).Int("total", len(types)).Msg("object type")
		typeSaved, typeFailed, err := b.backupObjectType(ctx, objectType, location)
		saved += typeSaved
		failed += typeFailed
		if err != nil {
			return saved, failed, err
		}
	}
	return saved, failed, nil
}

func (b *Backer) backupObjectType(ctx context.Context, objectType domain.ObjectType, location string) (saved, failed int, err error) {
	fileName := fmt.Sprintf("%s_%s", objectType.Name, objectType.ID)

	attrs, err := b.gw.ObjectTypeAttributes(ctx, objectType.ID)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON(fileName, filepath.Join(location, "config", "attributes"), attrs); err != nil {
		return saved, failed, err
	}
	b.log.Info().Int("count", len(attrs)).Msg("     - attributes")

	objects, err := b.gw.Objects(ctx, "objectTypeId="+objectType.ID)
	if err != nil {
		return saved, failed, err
	}
	if err := b.store.SaveJSON(fileName, filepath.Join(location, "objectsmeta"), objects); err != nil {
		return saved, failed, err
	}
	b.log.Info().Int("count", len(objects)).Msg("     - objects")

	// Object attribute values, keyed by source object id.
	objectData := make(map[string]domain.ObjectData, len(objects))
	var mu sync.Mutex
	RunAll(ctx, b.opts.Workers, len(objects), func(i int) {
		data, err := b.gw.ObjectData(ctx, objects[i].ID)
		if err != nil {
			b.log.Warn().Err(err).Str("objectId", objects[i].ID).Msg("object data fetch failed")
			mu.Lock()
			failed++
			mu.Unlock()
			return
		}
		mu.Lock()
		objectData[objects[i].ID] = data
		saved++
		mu.Unlock()
	})
	if err := b.store.SaveJSON(fileName, filepath.Join(location, "objects"), objectData); err != nil {
		return saved, failed, err
	}
	b.log.Info().Msg("        - data")

	RunAll(ctx, b.opts.Workers, len(objects), func(i int) {
		history, err := b.gw.ObjectHistory(ctx, objects[i].ID)
		if err != nil {
			b.log.Warn().Err(err).Str("objectId", objects[i].ID).Msg("object history fetch failed")
			return
		}
		if len(history) == 0 {
			return
		}
		if err := b.store.SaveJSON(history[0].ObjectID, filepath.Join(location, "objects", "history"), history); err != nil {
			b.log.Warn().Err(err).Str("objectId", objects[i].ID).Msg("object history save failed")
		}
	})
	b.log.Info().Msg("        - history")

	RunAll(ctx, b.opts.Workers, len(objects), func(i int) {
		comments, err := b.gw.ObjectComments(ctx, objects[i].ID)
		if err != nil {
			b.log.Warn().Err(err).Str("objectId", objects[i].ID).Msg("object comments fetch failed")
			return
		}
		if len(comments) == 0 {
			return
		}
		if err := b.store.SaveJSON(comments[0].ObjectID, filepath.Join(location, "objects", "comments"), comments); err != nil {
			b.log.Warn().Err(err).Str("objectId", objects[i].ID).Msg("object comments save failed")
		}
	})
	b.log.Info().Msg("        - comments")

	return saved, failed, nil
}

func joinKeys(schemas []domain.ObjectSchema) string {
	out := ""
	for i, schema := range schemas {
		if i > 0 {
			out += ","
		}
		out += schema.Key
	}
	return out
}
