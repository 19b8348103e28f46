package app

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/openferp/directory/pkg/cryptox"
	"github.com/openferp/directory/pkg/jwtx"
)

// SessionKeys are the key rings of the two session token types.
type SessionKeys struct {
	Access  *jwtx.KeyRing
	Refresh *jwtx.KeyRing
}

// InitSessionKeys builds the access and refresh key rings from the JWT_*
// configuration.
//
// Algorithms:
//   - HS256, HS384, HS512: access tokens are signed with JWT_SECRET_KEY.
//   - EdDSA: access tokens are signed with the Ed25519 key in
//     JWT_PRIVATE_KEY_FILE and the public half is published on the JWKS
//     endpoint.
//
// Refresh tokens never leave the directory, so they are always signed with
// the HMAC secret JWT_REFRESH_SECRET_KEY.
//
// Outside production a missing secret or key file is replaced by a random
// one. All existing tokens become invalid when the service restarts.
func InitSessionKeys(cfg Config, logger *slog.Logger) (SessionKeys, error) {
	previous, err := decodeSecrets(cfg.JWTKeyEncoding, cfg.JWTPreviousSecretKeys)
	if err != nil {
		return SessionKeys{}, fmt.Errorf("JWT_PREVIOUS_SECRET_KEYS: %w", err)
	}

	hmacAlg := strings.ToUpper(cfg.JWTAlgorithm)
	if !strings.HasPrefix(hmacAlg, "HS") {
		hmacAlg = "HS256"
	}

	var access *jwtx.KeyRing
	switch strings.ToUpper(cfg.JWTAlgorithm) {
	case "EDDSA":
		access, err = eddsaRing(cfg, logger)
	case "HS256", "HS384", "HS512":
		access, err = hmacRing(cfg, logger, "JWT_SECRET_KEY", hmacAlg, cfg.JWTSecretKey, previous)
	default:
		err = fmt.Errorf("unsupported JWT_ALGORITHM %q", cfg.JWTAlgorithm)
	}
	if err != nil {
		return SessionKeys{}, fmt.Errorf("access keys: %w", err)
	}

	refresh, err := hmacRing(cfg, logger, "JWT_REFRESH_SECRET_KEY", hmacAlg, cfg.JWTRefreshSecretKey, previous)
	if err != nil {
		return SessionKeys{}, fmt.Errorf("refresh keys: %w", err)
	}

	logger.Info("session keys loaded",
		"access_alg", access.Current().Alg(),
		"access_kid", access.Current().KID,
		"refresh_alg", refresh.Current().Alg(),
		"previous_keys", len(previous)+len(cfg.JWTPreviousKeyFiles),
	)

	return SessionKeys{Access: access, Refresh: refresh}, nil
}

func hmacRing(cfg Config, logger *slog.Logger, name, alg, encoded string, previous [][]byte) (*jwtx.KeyRing, error) {
	var secret []byte
	if encoded == "" {
		generated, err := ephemeralSecret(cfg, logger, name)
		if err != nil {
			return nil, err
		}
		secret = generated
	} else {
		decoded, err := decodeSecret(cfg.JWTKeyEncoding, encoded)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		secret = decoded
	}

	current, err := jwtx.NewHMACKey(alg, "", secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var old []jwtx.Key
	for _, p := range previous {
		k, err := jwtx.NewHMACKey(alg, "", p)
		if err != nil {
			return nil, fmt.Errorf("previous secret: %w", err)
		}
		// The current secret may still be listed as previous during a rollout.
		if k.KID == current.KID {
			continue
		}
		old = append(old, k)
	}

	return jwtx.NewKeyRing(current, old...)
}

func eddsaRing(cfg Config, logger *slog.Logger) (*jwtx.KeyRing, error) {
	var pemKey []byte
	if cfg.JWTPrivateKeyFile == "" {
		if cfg.Env == EnvProd {
			return nil, errors.New("JWT_PRIVATE_KEY_FILE is required in production")
		}
		generated, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, err
		}
		logger.Warn("JWT_PRIVATE_KEY_FILE not set, generated an ephemeral signing key")
		pemKey = generated
	} else {
		data, err := os.ReadFile(cfg.JWTPrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read JWT_PRIVATE_KEY_FILE: %w", err)
		}
		pemKey = data
	}

	current, err := jwtx.NewEdDSAKey("", pemKey)
	if err != nil {
		return nil, err
	}

	var old []jwtx.Key
	for _, path := range cfg.JWTPreviousKeyFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read previous key %s: %w", path, err)
		}
		k, err := jwtx.NewEdDSAKey("", data)
		if err != nil {
			return nil, fmt.Errorf("previous key %s: %w", path, err)
		}
		if k.KID == current.KID {
			continue
		}
		old = append(old, k)
	}

	return jwtx.NewKeyRing(current, old...)
}

func ephemeralSecret(cfg Config, logger *slog.Logger, name string) ([]byte, error) {
	if cfg.Env == EnvProd {
		return nil, fmt.Errorf("%s is required in production", name)
	}
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	logger.Warn(name + " not set, generated an ephemeral secret")
	return []byte(token), nil
}

func decodeSecrets(encoding string, values []string) ([][]byte, error) {
	out := make([][]byte, 0, len(values))
	for _, v := range values {
		b, err := decodeSecret(encoding, v)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// decodeSecret interprets a configured secret per JWT_KEY_ENCODING.
func decodeSecret(encoding, value string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", "raw":
		return []byte(value), nil
	case "base64":
		if b, err := base64.StdEncoding.DecodeString(value); err == nil {
			return b, nil
		}
		b, err := base64.RawURLEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 secret: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown JWT_KEY_ENCODING %q", encoding)
	}
}
