package adapter

import "context"

// MemberStatus is the membership role Telegram reports for a user in a
// channel. Member, administrator and creator count as joined.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// IsJoined reports whether the status counts as channel membership.
func (s MemberStatus) IsJoined() bool {
	switch s {
	case StatusCreator, StatusAdministrator, StatusMember:
		return true
	}
	return false
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	ChannelMember(ctx context.Context, channel string, chatID int64) (MemberStatus, error)
}
