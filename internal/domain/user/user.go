package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const removedMarker = "@removed"

// Row is one users table row derived from an exported directory record.
type Row struct {
	ID                string
	DisplayName       *string
	Email             *string
	UserPrincipalName *string
	RawJSON           json.RawMessage
}

// User is a row as read back from the database. LastSynced is set by the
// database when the row is inserted.
type User struct {
	ID                string
	DisplayName       *string
	Email             *string
	UserPrincipalName *string
	RawJSON           json.RawMessage
	LastSynced        time.Time
}

// NewRow parses one element of the export's "value" array.
func NewRow(raw json.RawMessage) (Row, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Row{}, fmt.Errorf("%w: record is not a JSON object", ErrInvalidField)
	}
	if fields == nil {
		return Row{}, fmt.Errorf("%w: record is null", ErrInvalidField)
	}

	id, err := optionalString(fields, "id")
	if err != nil {
		return Row{}, err
	}
	if id == nil || strings.TrimSpace(*id) == "" {
		return Row{}, ErrMissingID
	}

	if _, removed := fields[removedMarker]; removed {
		return Row{ID: *id}, ErrRemovedRecord
	}

	displayName, err := optionalString(fields, "displayName")
	if err != nil {
		return Row{ID: *id}, err
	}
	mail, err := optionalString(fields, "mail")
	if err != nil {
		return Row{ID: *id}, err
	}
	upn, err := optionalString(fields, "userPrincipalName")
	if err != nil {
		return Row{ID: *id}, err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return Row{ID: *id}, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	return Row{
		ID:                *id,
		DisplayName:       displayName,
		Email:             DeriveEmail(mail, upn),
		UserPrincipalName: upn,
		RawJSON:           json.RawMessage(compact.Bytes()),
	}, nil
}

// DeriveEmail prefers mail and falls back to the user principal name.
// Empty strings count as absent.
func DeriveEmail(mail, userPrincipalName *string) *string {
	if mail != nil && *mail != "" {
		return mail
	}
	if userPrincipalName != nil && *userPrincipalName != "" {
		return userPrincipalName
	}
	return nil
}

func optionalString(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidField, key)
	}
	return &value, nil
}
