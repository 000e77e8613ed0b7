package models

import "net/netip"

// NameServer is one authoritative server in the mesh. Identity is the
// (name, address) pair; the set is loaded once per run and read-only after.
type NameServer struct {
	Name    string     `json:"name"`
	Address netip.Addr `json:"address"`
}

// Check is a single A-record verification: ask Server to resolve Record and
// compare the answer against ExpectedIP. Record and ExpectedIP always come
// from the same inventory entry (the target); Server may be the same entry
// (self-check) or a different one.
type Check struct {
	Server     NameServer `json:"server"`
	Record     string     `json:"record"`
	ExpectedIP netip.Addr `json:"expected_ip"`
}

type Outcome string

const (
	OutcomePass Outcome = "PASS"
	OutcomeFail Outcome = "FAIL"
)

// FailureKind records what went wrong with a failed check. It feeds logs and
// the run history only; the outage report text stays PASS/FAIL.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureUnreachable FailureKind = "unreachable"
	FailureNoAnswer    FailureKind = "no_answer"
	FailureMismatch    FailureKind = "mismatch"
)

type CheckResult struct {
	Check      Check       `json:"check"`
	Outcome    Outcome     `json:"outcome"`
	Failure    FailureKind `json:"failure,omitempty"`
	ActualIP   netip.Addr  `json:"actual_ip,omitempty"`
	Attempts   int         `json:"attempts"`
	DurationMS int         `json:"duration_ms"`
}

// Run is one recorded execution of the full check matrix.
type Run struct {
	ID        int    `json:"id"`
	StartedAt string `json:"started_at"`
	AnyFailed bool   `json:"any_failed"`
	Report    string `json:"report,omitempty"`
}

// StoredResult is the persisted form of a CheckResult, flattened for sqlite.
type StoredResult struct {
	ID         int    `json:"id"`
	RunID      int    `json:"run_id"`
	Server     string `json:"server"`
	Record     string `json:"record"`
	ExpectedIP string `json:"expected_ip"`
	ActualIP   string `json:"actual_ip,omitempty"`
	Outcome    string `json:"outcome"`
	Failure    string `json:"failure,omitempty"`
	Attempts   int    `json:"attempts"`
	DurationMS int    `json:"duration_ms"`
}

type RunsResponse struct {
	Runs       []Run `json:"runs"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type RunDetailResponse struct {
	Run     Run            `json:"run"`
	Results []StoredResult `json:"results"`
}
