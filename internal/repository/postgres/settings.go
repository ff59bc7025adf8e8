package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	s := &domain.GuildSettings{}
	query := `SELECT guild_id, guild_name, welcome_channel_id, welcome_template
	          FROM guild_settings WHERE guild_id = $1`
	err := r.db.QueryRowContext(ctx, query, guildID).Scan(
		&s.GuildID, &s.GuildName, &s.WelcomeChannelID, &s.WelcomeTemplate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *domain.GuildSettings) error {
	query := `INSERT INTO guild_settings (guild_id, guild_name, welcome_channel_id, welcome_template)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (guild_id) DO UPDATE SET guild_name = $2, welcome_channel_id = $3, welcome_template = $4`
	_, err := r.db.ExecContext(ctx, query, s.GuildID, s.GuildName, s.WelcomeChannelID, s.WelcomeTemplate)
	return err
}
