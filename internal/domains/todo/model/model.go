package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const (
	TableName         = "todos"
	ReminderTableName = "reminders"
	EntityName        = "todo"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDue         = "due"
	FieldRepeat      = "repeat"
	FieldCompleted   = "completed"
)

// RepeatRule is the recurrence of a todo item.
type RepeatRule string

const (
	RepeatNever   RepeatRule = "Never"
	RepeatDaily   RepeatRule = "Daily"
	RepeatWeekly  RepeatRule = "Weekly"
	RepeatMonthly RepeatRule = "Monthly"
	RepeatYearly  RepeatRule = "Yearly"
)

// repeatRules is the exhaustive set of valid rules. The string form doubles
// as both the wire and the persisted representation.
var repeatRules = map[RepeatRule]struct{}{
	RepeatNever:   {},
	RepeatDaily:   {},
	RepeatWeekly:  {},
	RepeatMonthly: {},
	RepeatYearly:  {},
}

// ParseRepeatRule maps a string onto a RepeatRule. An unrecognized value is
// an error, never silently Never.
func ParseRepeatRule(value string) (RepeatRule, error) {
	rule := RepeatRule(value)
	if _, ok := repeatRules[rule]; !ok {
		return "", fmt.Errorf("malformed repeat rule %q", value)
	}

	return rule, nil
}

func (r RepeatRule) String() string {
	return string(r)
}

// Scan validates the persisted value at the store boundary so that an
// unrecognized row fails loudly instead of defaulting.
func (r *RepeatRule) Scan(src any) error {
	var value string

	switch v := src.(type) {
	case string:
		value = v
	case []byte:
		value = string(v)
	default:
		return fmt.Errorf("cannot scan %T into RepeatRule", src)
	}

	rule, err := ParseRepeatRule(value)
	if err != nil {
		return err
	}

	*r = rule

	return nil
}

// Value refuses to persist anything outside the known rule set.
func (r RepeatRule) Value() (driver.Value, error) {
	if _, ok := repeatRules[r]; !ok {
		return nil, fmt.Errorf("malformed repeat rule %q", string(r))
	}

	return string(r), nil
}

// Todo is owned by exactly one user; every query and mutation is scoped by
// OwnerID.
type Todo struct {
	ID          int64      `db:"id"`
	OwnerID     int64      `db:"user_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Due         *time.Time `db:"due"`
	Repeat      RepeatRule `db:"repeat"`
	Completed   bool       `db:"completed"`
	Reminders   []Reminder `db:"-"`
}

// Reminder has no independent lifecycle: it exists only as long as its parent
// todo and is replaced wholesale on every update.
type Reminder struct {
	ID     int64     `db:"id"`
	TodoID int64     `db:"todo_id"`
	At     time.Time `db:"reminder"`
}
