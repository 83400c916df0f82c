package core

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	OwnerNeng Owner = "Neng"
	OwnerJoy  Owner = "Joy"

	StatusSold    Status = "sold"
	StatusPending Status = "pending"

	GamePES     Game = "pes"
	GameLRG     Game = "lrg"
	GamePayroll Game = "payroll"
)

type (
	Owner  string
	Status string
	Game   string

	// Item is a single tracked sale/order record. The ID is assigned by the
	// remote store; CreatedAt is optional (zero time means unknown).
	Item struct {
		ID        string    `json:"id,omitempty"`
		Owner     Owner     `json:"owner"`
		Detail    string    `json:"detail"`
		Price     float64   `json:"price"`
		Status    Status    `json:"status"`
		Game      Game      `json:"game"`
		CreatedAt time.Time `json:"createdAt"`
		CreatedBy string    `json:"createdBy,omitempty"`
	}

	// ItemPatch carries a partial update. Nil fields are left untouched.
	ItemPatch struct {
		Owner  *Owner   `json:"owner,omitempty"`
		Detail *string  `json:"detail,omitempty"`
		Price  *float64 `json:"price,omitempty"`
		Status *Status  `json:"status,omitempty"`
		Game   *Game    `json:"game,omitempty"`
	}
)

var (
	ErrInvalidOwner  = errors.New("invalid owner")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidGame   = errors.New("invalid game")
	ErrInvalidPrice  = errors.New("invalid price")
)

func (o Owner) String() string  { return string(o) }
func (s Status) String() string { return string(s) }
func (g Game) String() string   { return string(g) }

func (o Owner) IsValid() bool {
	switch o {
	case OwnerNeng, OwnerJoy:
		return true
	default:
		return false
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSold, StatusPending:
		return true
	default:
		return false
	}
}

func (g Game) IsValid() bool {
	switch g {
	case GamePES, GameLRG, GamePayroll:
		return true
	default:
		return false
	}
}

// Owners returns every known owner.
func Owners() []Owner { return []Owner{OwnerNeng, OwnerJoy} }

// Statuses returns every known status.
func Statuses() []Status { return []Status{StatusSold, StatusPending} }

// Games returns every known game.
func Games() []Game { return []Game{GamePES, GameLRG, GamePayroll} }

// Validate checks the write-path invariants. Items read back from the remote
// store are accepted as-is; only new or patched records go through here.
func (it Item) Validate() error {
	if !it.Owner.IsValid() {
		return ErrInvalidOwner
	}
	if !it.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !it.Game.IsValid() {
		return ErrInvalidGame
	}
	if it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
		return ErrInvalidPrice
	}
	return nil
}

// Validate checks that every set field of the patch carries a legal value.
func (p ItemPatch) Validate() error {
	if p.Owner != nil && !p.Owner.IsValid() {
		return ErrInvalidOwner
	}
	if p.Status != nil && !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	if p.Game != nil && !p.Game.IsValid() {
		return ErrInvalidGame
	}
	if p.Price != nil && (*p.Price < 0 || math.IsNaN(*p.Price) || math.IsInf(*p.Price, 0)) {
		return ErrInvalidPrice
	}
	return nil
}

// Apply returns a copy of it with the patch's set fields replaced.
func (p ItemPatch) Apply(it Item) Item {
	if p.Owner != nil {
		it.Owner = *p.Owner
	}
	if p.Detail != nil {
		it.Detail = *p.Detail
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Game != nil {
		it.Game = *p.Game
	}
	return it
}

// DetailTags splits the comma-separated detail field into trimmed,
// non-empty tags. Order follows the stored string.
func (it Item) DetailTags() []string {
	return SplitDetail(it.Detail)
}

// SplitDetail splits a raw detail string on commas, trimming whitespace
// and discarding empty parts.
func SplitDetail(detail string) []string {
	if strings.TrimSpace(detail) == "" {
		return nil
	}
	parts := strings.Split(detail, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ExtractDetailTags returns the sorted set of unique detail tags found
// across all items. Sorting is plain byte order, so uppercase tags come
// before lowercase ones.
func ExtractDetailTags(items []Item) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, it := range items {
		for _, tag := range it.DetailTags() {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// ParsePrice coerces a raw price cell to a number. Numeric strings parse
// (thousand-separator commas are tolerated); anything unparsable, NaN or
// infinite collapses to zero. This runs once at the ingestion boundary so
// the rest of the code only ever sees a plain float64.
func ParsePrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
