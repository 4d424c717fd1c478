package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EscalationTargetType names the variant of an EscalationTarget.
type EscalationTargetType string

const (
	EscalationTargetSystemRole EscalationTargetType = "system_role"
	EscalationTargetCustomRole EscalationTargetType = "custom_role"
	EscalationTargetUser       EscalationTargetType = "user"
)

// EscalationTarget is exactly one of SystemRoleTarget, CustomRoleTarget or UserTarget.
type EscalationTarget interface {
	escalationTarget()
	Type() EscalationTargetType
	Value() string
}

// SystemRoleTarget escalates to everyone holding a system role.
type SystemRoleTarget struct {
	Role SystemRole
}

func (SystemRoleTarget) escalationTarget() {}

func (SystemRoleTarget) Type() EscalationTargetType {
	return EscalationTargetSystemRole
}

func (t SystemRoleTarget) Value() string {
	return string(t.Role)
}

// CustomRoleTarget escalates to holders of an organization custom role.
type CustomRoleTarget struct {
	ID string
}

func (CustomRoleTarget) escalationTarget() {}

func (CustomRoleTarget) Type() EscalationTargetType {
	return EscalationTargetCustomRole
}

func (t CustomRoleTarget) Value() string {
	return t.ID
}

// UserTarget escalates to a specific user.
type UserTarget struct {
	ID string
}

func (UserTarget) escalationTarget() {}

func (UserTarget) Type() EscalationTargetType {
	return EscalationTargetUser
}

func (t UserTarget) Value() string {
	return t.ID
}

// ErrInvalidEscalationTarget is returned for malformed target input.
var ErrInvalidEscalationTarget = errors.New("invalid escalation target")

// ParseEscalationTarget builds a target from its wire representation.
func ParseEscalationTarget(kind, value string) (EscalationTarget, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidEscalationTarget)
	}
	switch EscalationTargetType(strings.ToLower(strings.TrimSpace(kind))) {
	case EscalationTargetSystemRole:
		role, ok := ParseSystemRole(value)
		if !ok {
			return nil, fmt.Errorf("%w: unknown system role %q", ErrInvalidEscalationTarget, value)
		}
		return SystemRoleTarget{Role: role}, nil
	case EscalationTargetCustomRole:
		return CustomRoleTarget{ID: value}, nil
	case EscalationTargetUser:
		return UserTarget{ID: value}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEscalationTarget, kind)
	}
}

// EscalationColumns splits a target into the three mutually exclusive
// storage columns. Exactly one return value is non-nil for a non-nil target.
func EscalationColumns(target EscalationTarget) (systemRole, customRoleID, userID *string) {
	switch t := target.(type) {
	case SystemRoleTarget:
		v := string(t.Role)
		systemRole = &v
	case CustomRoleTarget:
		v := t.ID
		customRoleID = &v
	case UserTarget:
		v := t.ID
		userID = &v
	}
	return systemRole, customRoleID, userID
}

// EscalationTargetFromColumns is the inverse of EscalationColumns.
// It returns nil when no column is set and an error when more than one is.
func EscalationTargetFromColumns(systemRole, customRoleID, userID *string) (EscalationTarget, error) {
	set := 0
	var target EscalationTarget
	if systemRole != nil {
		set++
		target = SystemRoleTarget{Role: SystemRole(*systemRole)}
	}
	if customRoleID != nil {
		set++
		target = CustomRoleTarget{ID: *customRoleID}
	}
	if userID != nil {
		set++
		target = UserTarget{ID: *userID}
	}
	if set > 1 {
		return nil, fmt.Errorf("%w: %d escalation columns set", ErrInvalidEscalationTarget, set)
	}
	return target, nil
}
