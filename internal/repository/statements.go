package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/storage"
	"github.com/realmcore/achievement-server-go/internal/game/world"
)

// Statements use ? placeholders; the Postgres store rebinds them.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS criteria_progress (
		owner_kind SMALLINT NOT NULL,
		owner_id BIGINT NOT NULL,
		criteria_id BIGINT NOT NULL,
		counter BIGINT NOT NULL,
		date BIGINT NOT NULL,
		actor BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (owner_kind, owner_id, criteria_id)
	)`,
	`CREATE TABLE IF NOT EXISTS achievement_completions (
		owner_kind SMALLINT NOT NULL,
		owner_id BIGINT NOT NULL,
		achievement_id BIGINT NOT NULL,
		date BIGINT NOT NULL,
		completing_players TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (owner_kind, owner_id, achievement_id)
	)`,
	`CREATE INDEX IF NOT EXISTS achievement_completions_by_id ON achievement_completions (achievement_id)`,
}

const (
	selectProgress = `SELECT criteria_id, counter, date, actor FROM criteria_progress
		WHERE owner_kind = ? AND owner_id = ? ORDER BY criteria_id`
	selectCompletions = `SELECT achievement_id, date, completing_players FROM achievement_completions
		WHERE owner_kind = ? AND owner_id = ? ORDER BY achievement_id`
	deleteProgress = `DELETE FROM criteria_progress
		WHERE owner_kind = ? AND owner_id = ? AND criteria_id = ?`
	insertProgress = `INSERT INTO criteria_progress (owner_kind, owner_id, criteria_id, counter, date, actor)
		VALUES (?, ?, ?, ?, ?, ?)`
	deleteCompletion = `DELETE FROM achievement_completions
		WHERE owner_kind = ? AND owner_id = ? AND achievement_id = ?`
	insertCompletion = `INSERT INTO achievement_completions (owner_kind, owner_id, achievement_id, date, completing_players)
		VALUES (?, ?, ?, ?, ?)`
	selectRealmFirsts = `SELECT achievement_id, MIN(date) FROM achievement_completions
		WHERE achievement_id IN (%s) GROUP BY achievement_id ORDER BY achievement_id`
)

// rebind rewrites ? placeholders as $1, $2, ...
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns n comma separated ? placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type execFunc func(ctx context.Context, query string, args ...any) error

// applyBatch writes one owner's changes with delete-then-insert per key.
// Zero counters are only deleted.
func applyBatch(ctx context.Context, exec execFunc, b storage.Batch) error {
	kind, id := ownerKey(b.Owner)

	for _, criteriaID := range b.DeletedProgress {
		if err := exec(ctx, deleteProgress, kind, id, int64(criteriaID)); err != nil {
			return fmt.Errorf("delete progress %d: %w", criteriaID, err)
		}
	}
	for _, row := range b.Progress {
		if err := exec(ctx, deleteProgress, kind, id, int64(row.CriteriaID)); err != nil {
			return fmt.Errorf("delete progress %d: %w", row.CriteriaID, err)
		}
		if row.Counter == 0 {
			continue
		}
		err := exec(ctx, insertProgress, kind, id, int64(row.CriteriaID),
			encodeCounter(row.Counter), row.Date.Unix(), int64(row.Actor))
		if err != nil {
			return fmt.Errorf("insert progress %d: %w", row.CriteriaID, err)
		}
	}

	for _, achievementID := range b.DeletedCompletions {
		if err := exec(ctx, deleteCompletion, kind, id, int64(achievementID)); err != nil {
			return fmt.Errorf("delete completion %d: %w", achievementID, err)
		}
	}
	for _, row := range b.Completions {
		if err := exec(ctx, deleteCompletion, kind, id, int64(row.AchievementID)); err != nil {
			return fmt.Errorf("delete completion %d: %w", row.AchievementID, err)
		}
		err := exec(ctx, insertCompletion, kind, id, int64(row.AchievementID),
			row.Date.Unix(), encodeGUIDs(row.CompletingPlayers))
		if err != nil {
			return fmt.Errorf("insert completion %d: %w", row.AchievementID, err)
		}
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanProgress(rows rowScanner) ([]storage.ProgressRow, error) {
	var out []storage.ProgressRow
	for rows.Next() {
		var criteriaID, counter, date, actor int64
		if err := rows.Scan(&criteriaID, &counter, &date, &actor); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, storage.ProgressRow{
			CriteriaID: uint32(criteriaID),
			Counter:    decodeCounter(counter),
			Date:       time.Unix(date, 0).UTC(),
			Actor:      world.ObjectGUID(actor),
		})
	}
	return out, rows.Err()
}

func scanCompletions(rows rowScanner) ([]storage.CompletionRow, error) {
	var out []storage.CompletionRow
	for rows.Next() {
		var achievementID, date int64
		var players string
		if err := rows.Scan(&achievementID, &date, &players); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		guids, err := decodeGUIDs(players)
		if err != nil {
			return nil, fmt.Errorf("completion %d: %w", achievementID, err)
		}
		out = append(out, storage.CompletionRow{
			AchievementID:     uint32(achievementID),
			Date:              time.Unix(date, 0).UTC(),
			CompletingPlayers: guids,
		})
	}
	return out, rows.Err()
}

func scanRealmFirsts(rows rowScanner) ([]storage.RealmFirstRow, error) {
	var out []storage.RealmFirstRow
	for rows.Next() {
		var achievementID, date int64
		if err := rows.Scan(&achievementID, &date); err != nil {
			return nil, fmt.Errorf("scan realm first: %w", err)
		}
		out = append(out, storage.RealmFirstRow{
			AchievementID: uint32(achievementID),
			Date:          time.Unix(date, 0).UTC(),
		})
	}
	return out, rows.Err()
}

func ownerKey(owner world.Owner) (int16, int64) {
	return int16(owner.Kind), int64(owner.ID)
}

// Counters are stored as the two's complement bit pattern of the uint64 so
// saturated values survive a round trip through BIGINT columns.
func encodeCounter(v uint64) int64 { return int64(v) }
func decodeCounter(v int64) uint64 { return uint64(v) }

func encodeGUIDs(guids []world.ObjectGUID) string {
	parts := make([]string, len(guids))
	for i, g := range guids {
		parts[i] = strconv.FormatUint(uint64(g), 10)
	}
	return strings.Join(parts, " ")
}

func decodeGUIDs(s string) ([]world.ObjectGUID, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]world.ObjectGUID, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse completing player %q: %w", f, err)
		}
		out = append(out, world.ObjectGUID(v))
	}
	return out, nil
}

func realmFirstArgs(ids []uint32) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}
	return args
}
