// Package db opens PostgreSQL pools and applies the bundled schema.
//
// Connect wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries.
// Migrate runs [github.com/pressly/goose/v3] migrations over the same pool;
// the embedded Migrations create the session table read by
// session.PostgresStore.
//
// Settings come from the "database.*" configuration keys:
//
//	cfg, _ := config.Load(config.WithOptionalFile("openframe.yaml"))
//	pool, err := db.Connect(ctx, db.FromConfig(cfg))
//	if err != nil {
//		return err
//	}
//	app := openframe.New(
//		openframe.WithDatabase(db.Migrator(pool, "", log)),
//		openframe.WithHealthChecks(health.Checks{"postgres": db.Healthcheck(pool)}),
//		openframe.WithShutdownHook(db.Shutdown(pool)),
//	)
package db
