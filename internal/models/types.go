package models

import "time"

type Channel struct {
	ID         int64
	Name       string
	Topic      string
	LastBody   string
	LastAuthor string
	LastTime   time.Time
}

type Message struct {
	ID        int64
	GUID      string
	ChannelID int64
	Author    string
	Body      string
	IsFromMe  bool
	SentAt    time.Time
}
