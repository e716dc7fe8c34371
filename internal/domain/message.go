package domain

// Message is a text post authored by an account.
// ID and PostedBy never change after creation; only Text may be updated.
type Message struct {
	ID       int64  `db:"message_id"`
	PostedBy int64  `db:"posted_by"`
	Text     string `db:"message_text"`
	PostedAt int64  `db:"time_posted_epoch"` // epoch, caller supplied
}

// MaxMessageText is the upper bound on message_text, in characters.
const MaxMessageText = 255

// MinPasswordLen is the lower bound on account passwords, in characters.
const MinPasswordLen = 4
