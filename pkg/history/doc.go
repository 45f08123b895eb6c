// Package history records compile runs in a local SQLite database so
// that `anybuf history` can show when a schema set last built, how long
// it took and which diagnostics stopped it.
//
// # Storage
//
// Builds are stored in one table keyed by compile ID. Diagnostics and
// outputs are kept as JSON text. The database uses WAL mode, so `anybuf
// history` can read while `anybuf watch` writes.
//
// # Retention
//
// A Pruner removes builds older than history.max_age and the oldest
// builds beyond history.max_builds. `anybuf watch` runs it on the cron
// schedule in history.prune_schedule; `anybuf history --prune` runs it
// once.
//
// # Usage
//
//	store, err := history.OpenSQLite(cfg.ResolvePath(cfg.History.Path))
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := history.NewRecorder(store, "compile", logger)
//	res, err := c.Compile(ctx, req)
//	rec.Record(ctx, res, err)
package history
