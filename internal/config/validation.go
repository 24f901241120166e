package config

import (
	apperrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
)

// Validate checks configuration consistency after defaults are applied.
func (c *Config) Validate() error {
	if c.Site.Title == "" {
		return apperrors.ConfigInvalid("site.title", "must not be empty")
	}

	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return apperrors.ConfigInvalid("serve.port", "must be between 0 and 65535")
	}
	if c.Serve.RebuildInterval < 0 {
		return apperrors.ConfigInvalid("serve.rebuild_interval", "must not be negative")
	}

	if repo := c.Content.Repository; repo != nil {
		if repo.URL == "" {
			return apperrors.ConfigInvalid("content.repository.url", "must not be empty")
		}
		if repo.Auth != nil && !repo.Auth.IsZero() {
			switch repo.Auth.Type {
			case AuthTypeToken:
				if repo.Auth.Token == "" {
					return apperrors.ConfigInvalid("content.repository.auth.token", "token auth requires a token")
				}
			case AuthTypeBasic:
				if repo.Auth.Username == "" {
					return apperrors.ConfigInvalid("content.repository.auth.username", "basic auth requires a username")
				}
			default:
				return apperrors.ConfigInvalid("content.repository.auth.type", "must be token, basic or none")
			}
		}
	}

	if c.Events.Enabled && c.Events.NATSURL == "" {
		return apperrors.ConfigInvalid("events.nats_url", "required when events are enabled")
	}

	return nil
}
