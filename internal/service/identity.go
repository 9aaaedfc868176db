package service

import (
	"fmt"
	"strings"
)

// ResolveStudentCode extracts the student code from a sheet's identity
// payload. The payload format is "studentCode-examCode"; everything left of
// the first dash is the student code, and a payload without a dash is taken
// to be the student code on its own. An empty payload resolves to "" — the
// caller's policy is to skip persistence for that sheet, not to fail it.
func ResolveStudentCode(identityPayload string) string {
	if identityPayload == "" {
		return ""
	}
	if idx := strings.Index(identityPayload, "-"); idx >= 0 {
		return identityPayload[:idx]
	}
	return identityPayload
}

// ParseIdentityPayload splits a full "studentCode-examCode" payload. The
// single-sheet flow needs both halves to locate the exam, so here a payload
// with fewer than two segments is a hard error (unlike the batch flow, which
// only needs the student code).
func ParseIdentityPayload(identityPayload string) (studentCode, examCode string, err error) {
	parts := strings.SplitN(identityPayload, "-", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid identity payload %q: expected studentcode-examcode", identityPayload)
	}
	return parts[0], parts[1], nil
}
