package ledger

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("ledger: empty connection URL")
	ErrFailedToParseURL   = errors.New("ledger: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("ledger: failed to establish connection")
	ErrEmptyCampaign      = errors.New("ledger: campaign id is required")
)
