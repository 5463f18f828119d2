package model

// Session is process-scoped identity shared across all events of a run.
// CheckMode and Version are sticky: once observed in a task's arguments
// they persist for the rest of the session. Playbook is updated on each
// playbook start within the same process.
type Session struct {
	ID        string // random, generated once at startup
	Hostname  string // local system hostname
	IP        string
	MAC       string
	User      string
	Playbook  string
	CheckMode bool
	Version   string // orchestration engine version, if discovered
}
