package audit

import (
	"fmt"
	"strconv"
)

// SweepEvent represents one retention sweep run
type SweepEvent struct {
	PurgedPosts      int
	PurgedBlogs      int
	TrimmedRevisions int
	Success          bool
	ErrorMessage     string
}

func (e SweepEvent) MessageID() string {
	return "sweep"
}

func (e SweepEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("retention sweep purged %d posts and %d blogs, trimmed %d revisions",
			e.PurgedPosts, e.PurgedBlogs, e.TrimmedRevisions)
	}
	msg := "retention sweep failed"
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SweepEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityError
}

func (e SweepEvent) Facility() int {
	return FacilityUser
}

func (e SweepEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAction: {
			"operation": "sweep",
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
		sd[SDIDAction]["purged_posts"] = strconv.Itoa(e.PurgedPosts)
		sd[SDIDAction]["purged_blogs"] = strconv.Itoa(e.PurgedBlogs)
		sd[SDIDAction]["trimmed_revisions"] = strconv.Itoa(e.TrimmedRevisions)
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
