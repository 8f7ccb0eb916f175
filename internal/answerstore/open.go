package answerstore

import (
	"context"
	"fmt"

	"github.com/soaringjerry/fairway/internal/config"
	"github.com/soaringjerry/fairway/internal/services"
)

// Open binds the backend named in cfg. The returned close func is never nil.
func Open(ctx context.Context, cfg config.AnswersConfig) (services.AnswerStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.AnswersMemory:
		return NewMemory(cfg.TTL), noop, nil
	case config.AnswersFile:
		f, err := NewFile(cfg.Dir, cfg.TTL)
		if err != nil {
			return nil, noop, err
		}
		return f, noop, nil
	case config.AnswersRedis:
		r, err := NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.TTL)
		if err != nil {
			return nil, noop, err
		}
		return r, r.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown answers backend %q", cfg.Backend)
}
