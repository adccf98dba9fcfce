package db

import "time"

// tokenRowID is the primary key of the single credential row.
const tokenRowID = 1

// Token is the persisted access/refresh credential pair.
// The table only ever holds one row.
type Token struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Empty reports whether the record carries no credentials at all.
func (t *Token) Empty() bool {
	return t == nil || (t.AccessToken == "" && t.RefreshToken == "")
}
