package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables lists every table the service reads, in creation order.
var Tables = []string{"users", "games", "reviews", "purchases"}

var schema = map[string]string{
	"users": `
		CREATE TABLE IF NOT EXISTS users (
			id             BIGINT AUTO_INCREMENT PRIMARY KEY,
			username       VARCHAR(100) NOT NULL,
			email          VARCHAR(255) NOT NULL,
			password_hash  VARCHAR(255) NOT NULL,
			role           VARCHAR(32)  NOT NULL DEFAULT 'client',
			security_stamp VARCHAR(64)  NOT NULL,
			last_reset_jti VARCHAR(64)  NULL,
			created_at     DATETIME     NOT NULL,
			updated_at     DATETIME     NOT NULL,
			UNIQUE KEY uq_users_username (username),
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	"games": `
		CREATE TABLE IF NOT EXISTS games (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			title        VARCHAR(255)  NOT NULL,
			description  TEXT          NOT NULL,
			release_date DATE          NOT NULL,
			genre        VARCHAR(100)  NOT NULL DEFAULT '',
			developer    VARCHAR(255)  NOT NULL DEFAULT '',
			platform     VARCHAR(100)  NOT NULL DEFAULT '',
			price        DECIMAL(10,2) NOT NULL DEFAULT 0
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	"reviews": `
		CREATE TABLE IF NOT EXISTS reviews (
			id      BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			game_id BIGINT      NOT NULL,
			rating  INT         NOT NULL,
			comment TEXT        NOT NULL,
			KEY idx_reviews_game (game_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	"purchases": `
		CREATE TABLE IF NOT EXISTS purchases (
			id            BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id       VARCHAR(64) NOT NULL,
			game_id       BIGINT      NOT NULL,
			purchase_date DATETIME    NOT NULL,
			KEY idx_purchases_user (user_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

type column struct {
	table, name, ddl string
}

// upgrades are columns added after the first release. Tables created by an
// older build get them through ALTER TABLE.
var upgrades = []column{
	{"users", "security_stamp", "ALTER TABLE users ADD COLUMN security_stamp VARCHAR(64) NOT NULL DEFAULT ''"},
	{"users", "last_reset_jti", "ALTER TABLE users ADD COLUMN last_reset_jti VARCHAR(64) NULL"},
}

// EnsureSchema creates missing tables and adds missing upgrade columns to
// tables that already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range Tables {
		if HasTable(ctx, db, table) {
			if err := ensureColumns(ctx, db, table); err != nil {
				return err
			}
			continue
		}
		if _, err := db.ExecContext(ctx, schema[table]); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

func ensureColumns(ctx context.Context, db *sql.DB, table string) error {
	for _, col := range upgrades {
		if col.table != table || HasColumn(ctx, db, col.table, col.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, col.ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", col.table, col.name, err)
		}
	}
	return nil
}

// MissingTables returns the tables EnsureSchema would create.
func MissingTables(ctx context.Context, q QueryRower) []string {
	missing := []string{}
	for _, table := range Tables {
		if !HasTable(ctx, q, table) {
			missing = append(missing, table)
		}
	}
	return missing
}

// MissingColumns returns "table.column" for upgrade columns absent from
// tables that exist.
func MissingColumns(ctx context.Context, q QueryRower) []string {
	missing := []string{}
	present := map[string]bool{}
	for _, col := range upgrades {
		exists, seen := present[col.table]
		if !seen {
			exists = HasTable(ctx, q, col.table)
			present[col.table] = exists
		}
		if exists && !HasColumn(ctx, q, col.table, col.name) {
			missing = append(missing, col.table+"."+col.name)
		}
	}
	return missing
}
