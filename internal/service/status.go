package service

import "strings"

// NormalizedStatus is the closed set every free-text approval status maps to.
// Persisted rows only carry the canonical Indonesian strings, but historical
// data and upstream imports used loose synonyms, so classification works on
// case-insensitive substrings. This is the only place status strings are
// interpreted.
type NormalizedStatus string

const (
	StatusApproved NormalizedStatus = "approved"
	StatusRejected NormalizedStatus = "rejected"
	StatusRevised  NormalizedStatus = "revised"
	StatusPending  NormalizedStatus = "pending"
	StatusUnknown  NormalizedStatus = "unknown"
)

// Overall status values derived for a process. Not persisted.
const (
	OverallRevision = "Perlu Revisi"
	OverallRejected = "Ditolak"
	OverallApproved = "Sah"
	OverallWaiting  = "Menunggu Persetujuan"
	OverallNone     = "Belum Ada Tindakan"
)

var (
	revisedWords  = []string{"revisi", "revis", "perbaik"}
	rejectedWords = []string{"tolak", "reject"}
	// pending is checked before approved: "menunggu persetujuan" must not
	// match the "setuju" synonym.
	pendingWords  = []string{"belum", "menunggu", "pending", "tinjau", "proses"}
	approvedWords = []string{"sah", "setuju", "approve", "acc"}
)

// ClassifyStatus maps a free-text status to its normalized category.
func ClassifyStatus(raw string) NormalizedStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusUnknown
	}
	switch {
	case containsAny(s, revisedWords):
		return StatusRevised
	case containsAny(s, rejectedWords):
		return StatusRejected
	case containsAny(s, pendingWords):
		return StatusPending
	case containsAny(s, approvedWords):
		return StatusApproved
	}
	return StatusUnknown
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// OverallStatus folds the per-approver statuses of one process into a single
// derived status. Precedence: any revision request wins, then any rejection,
// then unanimous approval; anything undecided (including unrecognized values)
// means the process is still waiting. Zero rows means nothing was assigned.
func OverallStatus(statuses []string) string {
	if len(statuses) == 0 {
		return OverallNone
	}

	anyRevised := false
	anyRejected := false
	allApproved := true
	for _, raw := range statuses {
		switch ClassifyStatus(raw) {
		case StatusRevised:
			anyRevised = true
			allApproved = false
		case StatusRejected:
			anyRejected = true
			allApproved = false
		case StatusApproved:
		default:
			allApproved = false
		}
	}

	switch {
	case anyRevised:
		return OverallRevision
	case anyRejected:
		return OverallRejected
	case allApproved:
		return OverallApproved
	}
	return OverallWaiting
}
