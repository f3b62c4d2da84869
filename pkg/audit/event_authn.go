package audit

import "fmt"

// LoginEvent represents an authentication attempt
type LoginEvent struct {
	Email        string
	ClientIP     string
	Method       string // "password" or "api-key"
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s logged in with %s", e.Email, e.Method)
	}
	msg := fmt.Sprintf("%s failed to log in with %s", e.Email, e.Method)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LoginEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user":   e.Email,
			"method": e.Method,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.Success {
		sd[SDIDAuth]["result"] = "success"
	} else {
		sd[SDIDAuth]["result"] = "failure"
	}
	return sd
}
