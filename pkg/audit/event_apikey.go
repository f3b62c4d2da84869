package audit

import "fmt"

// KeyRotationEvent represents an API key rotation
type KeyRotationEvent struct {
	Email        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e KeyRotationEvent) MessageID() string {
	return "rotate-api-key"
}

func (e KeyRotationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s rotated their API key", e.Email)
	}
	msg := fmt.Sprintf("%s tried to rotate their API key", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e KeyRotationEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e KeyRotationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e KeyRotationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDAction: {
			"operation": "rotate-api-key",
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}

// PasswordEvent represents a password change
type PasswordEvent struct {
	Email        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e PasswordEvent) MessageID() string {
	return "password"
}

func (e PasswordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s changed their password", e.Email)
	}
	msg := fmt.Sprintf("%s tried to change their password", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e PasswordEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e PasswordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PasswordEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDAction: {
			"operation": "password",
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
