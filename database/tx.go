// Package database — Transaction yönetimi.
//
// WithTx, birden fazla DB operasyonunun atomik (all-or-nothing) çalışmasını sağlar.
// Session store'un Store() operasyonu bunu kullanır: access token, refresh token,
// expiry, rol ve kullanıcı profili tek bir transaction içinde yazılır — yarım
// yazılmış bir oturum asla diskte kalmaz.
//
// Kullanım:
//
//	err := database.WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
//	    if _, err := tx.ExecContext(ctx, "INSERT ...", ...); err != nil {
//	        return err // → ROLLBACK
//	    }
//	    return nil // → COMMIT
//	})
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, hem *sql.DB hem *sql.Tx tarafından karşılanan interface.
// Repository'ler bu interface'i dependency olarak alırsa, normal operasyonlarda
// *sql.DB, transaction içinde *sql.Tx geçilebilir.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx, verilen fonksiyonu bir SQL transaction içinde çalıştırır.
// fn nil dönerse COMMIT, error dönerse ROLLBACK yapılır.
// fn panic atarsa ROLLBACK yapılıp panic tekrar fırlatılır — açık kalan
// transaction DB lock'a neden olabilir.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
