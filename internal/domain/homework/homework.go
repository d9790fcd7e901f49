// internal/domain/homework/homework.go
package homework

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the review state of a homework as reported by the Practicum API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// verdicts maps each known status to the sentence relayed to the chat.
var verdicts = map[Status]string{
	StatusApproved:  "Work has been reviewed: the reviewer liked everything. Hooray!",
	StatusReviewing: "Work has been taken for review by the reviewer.",
	StatusRejected:  "Work has been reviewed: the reviewer has comments.",
}

// Verdict returns the verdict sentence for s and whether s is known.
func Verdict(s Status) (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// KnownStatuses lists the recognized statuses in a stable order.
func KnownStatuses() []Status {
	return []Status{StatusApproved, StatusReviewing, StatusRejected}
}

// ParseKnownStatus converts s to a Status, reporting whether it is one of the known values.
func ParseKnownStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := verdicts[st]
	return st, ok
}

// Notification is a relayed status message.
// Corresponds to the 'homework_notifications' table.
type Notification struct {
	ID           int64
	HomeworkName string
	Status       Status
	Message      string
	SentAt       time.Time
}

const messageTemplate = `Changed review status of work "%s".%s`

// CheckResponse validates the decoded API payload and returns its homeworks list.
func CheckResponse(resp any) ([]any, error) {
	const op = "CheckResponse"

	payload, ok := resp.(map[string]any)
	if !ok {
		return nil, newError(KindShape, op, fmt.Sprintf("response is not a mapping (got %T)", resp))
	}
	raw, ok := payload["homeworks"]
	if !ok {
		return nil, newError(KindShape, op, "response has no 'homeworks' key")
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, newError(KindShape, op, fmt.Sprintf("'homeworks' is not a list (got %T)", raw))
	}
	return homeworks, nil
}

// ParseStatus builds the notification text for a single homework record.
func ParseStatus(record any) (string, error) {
	name, status, err := ParseRecord(record)
	if err != nil {
		return "", err
	}
	verdict, _ := Verdict(status)
	return fmt.Sprintf(messageTemplate, name, verdict), nil
}

// ParseRecord extracts the homework name and known status from a record.
func ParseRecord(record any) (string, Status, error) {
	const op = "ParseStatus"

	fields, ok := record.(map[string]any)
	if !ok {
		return "", "", newError(KindMissingField, op, fmt.Sprintf("homework record is not a mapping (got %T)", record))
	}
	rawName, ok := fields["homework_name"]
	if !ok {
		return "", "", newError(KindMissingField, op, "homework record has no 'homework_name'")
	}
	name := fmt.Sprint(rawName)
	if s, isString := rawName.(string); isString {
		name = s
	}

	rawStatus, _ := fields["status"].(string)
	status, known := ParseKnownStatus(rawStatus)
	if !known {
		return "", "", newError(KindUnknownStatus, op, fmt.Sprintf("unknown homework status %q", rawStatus))
	}
	return name, status, nil
}

// CurrentDate returns the server timestamp carried in the payload's 'current_date' field.
func CurrentDate(resp any) (int64, bool) {
	payload, ok := resp.(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := payload["current_date"].(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
