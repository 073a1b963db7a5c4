package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sideeq12/tutorhub/database"
	"github.com/sideeq12/tutorhub/models"
	"github.com/sideeq12/tutorhub/pkg/crypto"
)

// session_store tablosundaki key'ler.
// Diskte tutulan TÜM client-side state bu beş düz kayıttan ibarettir.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyExpiresAt    = "expires_at"
	keyRole         = "role"
	keyUserJSON     = "user_json"
)

// sqliteSessionRepo, SessionRepository'nin SQLite implementasyonu.
// Token değerleri AES-256-GCM ile şifrelenmiş yazılır; rol ve profil düz metin.
type sqliteSessionRepo struct {
	db  *sql.DB
	key []byte // AES-256 anahtarı (crypto.DeriveKey ile türetilmiş)
}

// NewSQLiteSessionRepo, constructor.
func NewSQLiteSessionRepo(db *sql.DB, key []byte) SessionRepository {
	return &sqliteSessionRepo{db: db, key: key}
}

func (r *sqliteSessionRepo) Store(ctx context.Context, session *models.Session, user *models.User, role models.Role) error {
	encAccess, err := crypto.Encrypt(session.AccessToken, r.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	encRefresh, err := crypto.Encrypt(session.RefreshToken, r.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user snapshot: %w", err)
	}

	// Beş kayıt tek transaction'da yazılır — process yarıda ölse bile
	// diskte ya tam oturum vardır ya hiç yoktur.
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		entries := map[string]string{
			keyAccessToken:  encAccess,
			keyRefreshToken: encRefresh,
			keyExpiresAt:    strconv.FormatInt(session.ExpiresAt, 10),
			keyRole:         string(role),
			keyUserJSON:     string(userJSON),
		}
		for key, value := range entries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO session_store (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
				key, value,
			); err != nil {
				return fmt.Errorf("failed to store %s: %w", key, err)
			}
		}
		return nil
	})
}

func (r *sqliteSessionRepo) ReadUser(ctx context.Context) (*models.User, models.Role, error) {
	roleStr, err := r.read(ctx, keyRole)
	if err != nil {
		return nil, "", nil // kayıt yok veya okunamadı → çıkış yapılmış say
	}
	userJSON, err := r.read(ctx, keyUserJSON)
	if err != nil {
		return nil, "", nil
	}

	role, err := models.ParseRole(roleStr)
	if err != nil {
		return nil, "", nil // bozuk rol değeri → çıkış yapılmış say
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		// Bozuk persisted JSON asla exception olarak yukarı taşınmaz.
		return nil, "", nil
	}
	if user.ID == "" {
		return nil, "", nil
	}

	return &user, role, nil
}

func (r *sqliteSessionRepo) ReadSession(ctx context.Context) (*models.Session, error) {
	encAccess, err := r.read(ctx, keyAccessToken)
	if err != nil {
		return nil, nil
	}
	encRefresh, err := r.read(ctx, keyRefreshToken)
	if err != nil {
		return nil, nil
	}
	expiresStr, err := r.read(ctx, keyExpiresAt)
	if err != nil {
		return nil, nil
	}

	access, err := crypto.Decrypt(encAccess, r.key)
	if err != nil {
		return nil, nil // yanlış anahtar veya bozuk veri → oturum yok say
	}
	refresh, err := crypto.Decrypt(encRefresh, r.key)
	if err != nil {
		return nil, nil
	}
	expiresAt, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return nil, nil
	}

	return &models.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func (r *sqliteSessionRepo) IsValid(ctx context.Context) bool {
	encAccess, err := r.read(ctx, keyAccessToken)
	if err != nil || encAccess == "" {
		return false
	}
	expiresStr, err := r.read(ctx, keyExpiresAt)
	if err != nil {
		return false
	}
	expiresAt, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return false
	}
	return expiresAt > time.Now().Unix()
}

func (r *sqliteSessionRepo) Clear(ctx context.Context) error {
	// Tüm kayıtları sil — tablo zaten boşsa no-op (idempotent).
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_store`)
	if err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	return nil
}

// AccessToken, api.TokenSource implementasyonu.
// Her API isteğinde çağrılır; hata durumları sessizce "token yok" demektir.
func (r *sqliteSessionRepo) AccessToken() string {
	enc, err := r.read(context.Background(), keyAccessToken)
	if err != nil {
		return ""
	}
	token, err := crypto.Decrypt(enc, r.key)
	if err != nil {
		return ""
	}
	return token
}

// read, tek bir key'in değerini okur. Kayıt yoksa sql.ErrNoRows döner.
func (r *sqliteSessionRepo) read(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_store WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}
