package domain

import "strconv"

// UserID identifies the reminder owner. Chat platform user IDs are positive
// integers; zero and negative values are rejected.
type UserID struct {
	value int64
}

func NewUserID(v int64) (UserID, error) {
	if v <= 0 {
		return UserID{}, ErrInvalidUserID
	}

	return UserID{value: v}, nil
}

func UserIDFromString(s string) (UserID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return UserID{}, ErrInvalidUserID
	}

	return NewUserID(v)
}

func (u UserID) Int64() int64 {
	return u.value
}

func (u UserID) String() string {
	return strconv.FormatInt(u.value, 10)
}

func (u UserID) IsZero() bool {
	return u.value == 0
}

func (u UserID) Equals(other UserID) bool {
	return u.value == other.value
}
