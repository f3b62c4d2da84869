package audit

import (
	"fmt"
	"sort"
	"strings"
)

// EntityEvent represents a write to a blog, post or comment. Changed
// carries the column names only, never the values.
type EntityEvent struct {
	Email        string
	ClientIP     string
	Kind         string // "blog", "post", "comment"
	Subject      string // slug or id
	Operation    string // "create", "update", "delete", "restore", "publish"
	Changed      []string
	Success      bool
	ErrorMessage string
}

func (e EntityEvent) MessageID() string {
	return e.Kind + "-" + e.Operation
}

func (e EntityEvent) Message() string {
	actor := e.Email
	if actor == "" {
		actor = "anonymous"
	}
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s %s", actor, e.Operation, e.Kind, e.Subject)
	}
	msg := fmt.Sprintf("%s tried to %s %s %s", actor, e.Operation, e.Kind, e.Subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e EntityEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e EntityEvent) Facility() int {
	return FacilityUser
}

func (e EntityEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"kind": e.Kind,
			"id":   e.Subject,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.Email != "" {
		sd[SDIDAuth] = map[string]string{"user": e.Email}
	}
	if len(e.Changed) > 0 {
		changed := append([]string(nil), e.Changed...)
		sort.Strings(changed)
		sd[SDIDAction]["changed"] = strings.Join(changed, ",")
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
