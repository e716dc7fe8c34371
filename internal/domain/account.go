package domain

// Account is a registered user identity. Password is kept verbatim.
type Account struct {
	ID       int64  `db:"account_id"`
	Username string `db:"username"`
	Password string `db:"password"`
}
