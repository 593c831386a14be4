package models

import "time"

// IdempotencyKey tracks processed requests so a retried POST does not
// accrue or redeem twice. A key with no response yet is reserved by the
// request still running under it.
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}

// Pending reports whether the key is reserved but has no response yet
func (k *IdempotencyKey) Pending() bool {
	return k.ResponseStatus == 0
}
