package audit

import (
	"fmt"
	"strconv"
)

// SeedEvent represents a seed manifest load
type SeedEvent struct {
	Source       string // manifest path or "stdin"
	Authors      int
	Blogs        int
	Posts        int
	Success      bool
	ErrorMessage string
}

func (e SeedEvent) MessageID() string {
	return "seed"
}

func (e SeedEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("seed manifest %s applied: %d authors, %d blogs, %d posts",
			e.Source, e.Authors, e.Blogs, e.Posts)
	}
	msg := fmt.Sprintf("seed manifest %s rejected", e.Source)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SeedEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityError
}

func (e SeedEvent) Facility() int {
	return FacilityUser
}

func (e SeedEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"manifest": e.Source,
		},
		SDIDAction: {
			"operation": "seed",
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
		sd[SDIDSubject]["authors"] = strconv.Itoa(e.Authors)
		sd[SDIDSubject]["blogs"] = strconv.Itoa(e.Blogs)
		sd[SDIDSubject]["posts"] = strconv.Itoa(e.Posts)
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
