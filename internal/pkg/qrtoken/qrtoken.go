// Package qrtoken mints and parses the opaque strings carried by the QR
// codes the app exchanges. Routing is by namespace prefix only; tokens
// carry no signature (trusted-signal boundary).
package qrtoken

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	bountyPrefix = "bounty_"
	userPrefix   = "user_"
)

var ErrMalformedToken = errors.New("malformed token")

type Kind int

const (
	KindBounty Kind = iota
	KindUser
)

type Token struct {
	Kind     Kind
	BountyID string
	Owner    string
	UserID   string
	IssuedAt time.Time
}

// MintBountyToken produces "bounty_<id>_<owner>_<unixmilli>". Bounty ids
// never contain underscores; owners may, so parsing anchors on the first
// and last separators.
func MintBountyToken(bountyID, owner string, now time.Time) string {
	return fmt.Sprintf("%s%s_%s_%d", bountyPrefix, bountyID, owner, now.UnixMilli())
}

func MintUserToken(userID string) string {
	return userPrefix + userID
}

func Parse(raw string) (*Token, error) {
	switch {
	case strings.HasPrefix(raw, bountyPrefix):
		return parseBounty(strings.TrimPrefix(raw, bountyPrefix))
	case strings.HasPrefix(raw, userPrefix):
		id := strings.TrimPrefix(raw, userPrefix)
		if id == "" {
			return nil, ErrMalformedToken
		}
		return &Token{Kind: KindUser, UserID: id}, nil
	default:
		return nil, ErrMalformedToken
	}
}

func parseBounty(rest string) (*Token, error) {
	first := strings.Index(rest, "_")
	last := strings.LastIndex(rest, "_")
	if first < 1 || last <= first+1 || last == len(rest)-1 {
		return nil, ErrMalformedToken
	}

	millis, err := strconv.ParseInt(rest[last+1:], 10, 64)
	if err != nil {
		return nil, ErrMalformedToken
	}

	return &Token{
		Kind:     KindBounty,
		BountyID: rest[:first],
		Owner:    rest[first+1 : last],
		IssuedAt: time.UnixMilli(millis),
	}, nil
}
