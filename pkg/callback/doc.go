// Package callback ships orchestration task results to the LogDNA
// ingestion API as structured log lines.
//
// Quick start:
//
//	cb, err := callback.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cb.PlaybookStart("site.yml")
//	cb.TaskStart(taskUUID)
//	err = cb.RunnerOK(ctx, callback.TaskResult{UUID: taskUUID, Host: "web01"})
//
// Configuration comes from LOGDNA_* environment variables and the
// optional YAML file named by LOGDNA_CONFIG_FILE. Each terminal hook
// performs one synchronous delivery; there is no batching, retry or local
// queue. Without an ingestion key the callback disables itself and every
// hook is a no-op.
package callback
