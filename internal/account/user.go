package account

import (
	"errors"
	"time"
)

// DateLayout is the calendar-day format used for created, last_login and
// project dates in user_data.json.
const DateLayout = "2006-01-02"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrInvalid            = errors.New("invalid input")
)

type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Statuses lists project statuses in display order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusCompleted}
}

type User struct {
	Email        string    `json:"-"`
	Username     string    `json:"username"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"password"`
	Streak       int       `json:"streak"`
	Created      string    `json:"created"`
	LastLogin    *string   `json:"last_login"`
	Projects     []Project `json:"projects"`
}

type Project struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Date         string         `json:"date"`
	Status       Status         `json:"status"`
	LastModified string         `json:"last_modified"`
	GameData     map[string]any `json:"game_data"`
}

// UpdateStreak records a login on today's date. A second login the same day
// changes nothing, a login the day after the previous one extends the
// streak, and any longer gap resets it to zero. The first ever login
// starts the streak at one.
func UpdateStreak(u *User, now time.Time) {
	today := now.Format(DateLayout)
	if u.LastLogin != nil && *u.LastLogin == today {
		return
	}
	switch {
	case u.LastLogin == nil || *u.LastLogin == "":
		u.Streak = 1
	default:
		last, err := time.Parse(DateLayout, *u.LastLogin)
		if err == nil && daysBetween(last, now) == 1 {
			u.Streak++
		} else {
			u.Streak = 0
		}
	}
	u.LastLogin = &today
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
