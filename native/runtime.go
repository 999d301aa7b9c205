package native

// Runtime owns the process-scoped native state: the library cache and the
// calling-convention choice. Load-once, never-unload; one Runtime should
// exist per process and is handed to the orchestrator explicitly rather
// than living in package globals.
type Runtime struct {
	Locator Locator
}
