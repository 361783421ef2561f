// Package health provides liveness and readiness handlers.
//
// Handlers are plain http.HandlerFunc values, so they mount on the dispatch
// router like any other route:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}))
//
// Readiness runs every check concurrently under a shared timeout and answers
// 503 when any check fails. Send "Accept: application/json" or ?format=json
// for a per-check report.
package health
