package models

import (
	"strconv"
	"time"
)

// ActorKind distinguishes the two identity schemes a reader can act under.
type ActorKind string

const (
	ActorSession ActorKind = "session"
	ActorUser    ActorKind = "user"
)

// Actor identifies who performed an engagement action: an anonymous session
// token or an authenticated user. Uniqueness and lookups are defined on this
// one type so the two schemes never diverge.
type Actor struct {
	Kind ActorKind
	Key  string
}

func SessionActor(token string) Actor {
	return Actor{Kind: ActorSession, Key: token}
}

func UserActor(id uint) Actor {
	return Actor{Kind: ActorUser, Key: strconv.FormatUint(uint64(id), 10)}
}

func (a Actor) String() string {
	return string(a.Kind) + ":" + a.Key
}

// Interaction is one actor's engagement record against one post. The ledger
// is the source of truth for the post's counters.
//
// At most one row exists per (post, actor); the composite unique index lets
// the store reject a racing duplicate insert so the loser can re-read the
// winning row. Like and dislike are mutually exclusive; the interaction
// service never persists both true.
type Interaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_actor" json:"post_id"`
	ActorType ActorKind `gorm:"size:16;not null;uniqueIndex:idx_post_actor" json:"actor_type"`
	ActorKey  string    `gorm:"size:255;not null;uniqueIndex:idx_post_actor" json:"actor_key"`
	Like      bool      `gorm:"default:false" json:"like"`
	Dislike   bool      `gorm:"default:false" json:"dislike"`
	Share     bool      `gorm:"default:false" json:"share"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Interaction) Actor() Actor {
	return Actor{Kind: i.ActorType, Key: i.ActorKey}
}
