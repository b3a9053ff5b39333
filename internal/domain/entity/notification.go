package entity

import "time"

// NoticeLevel severidad de una notificación.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notification aviso descartable que caduca solo.
type Notification struct {
	ID        string      `json:"id"`
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired informa si ya no debe mostrarse.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
