package service

import (
	"context"
	"errors"
	"strconv"

	"Social/internal/cache"
	dom "Social/internal/domain"
	"Social/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MessageService validates and orchestrates message operations.
type MessageService struct {
	messages repo.MessageRepo
	accounts repo.AccountRepo
	cache    *cache.MessageCache
	log      *zap.Logger
	sf       singleflight.Group
}

// NewMessageService creates a MessageService. If c is nil, caching is disabled.
func NewMessageService(messages repo.MessageRepo, accounts repo.AccountRepo, c *cache.MessageCache, log *zap.Logger) *MessageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageService{messages: messages, accounts: accounts, cache: c, log: log}
}

// Post stores a new message for an existing account.
func (s *MessageService) Post(ctx context.Context, postedBy int64, text string, postedAt int64) (dom.Message, error) {
	if err := validateMessageText(text); err != nil {
		return dom.Message{}, err
	}
	ok, err := s.accounts.ExistsByID(ctx, postedBy)
	if err != nil {
		return dom.Message{}, err
	}
	if !ok {
		return dom.Message{}, ErrUnknownAccount
	}

	m, err := s.messages.Create(ctx, dom.Message{PostedBy: postedBy, Text: text, PostedAt: postedAt})
	if err != nil {
		// The account vanished between the probe and the insert.
		if errors.Is(err, repo.ErrForeignKey) {
			return dom.Message{}, ErrUnknownAccount
		}
		return dom.Message{}, err
	}
	s.invalidateCache(ctx)
	return m, nil
}

func (s *MessageService) List(ctx context.Context) ([]dom.Message, error) {
	if s.cache == nil {
		return s.messages.List(ctx)
	}
	return s.cached(ctx, "all", s.cache.GetAll, s.cache.SetAll, s.messages.List)
}

func (s *MessageService) GetByID(ctx context.Context, id int64) (dom.Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Message{}, ErrNotFound
		}
		return dom.Message{}, err
	}
	return m, nil
}

// ListByAccount never returns ErrNotFound; an account without messages
// (or an unknown account) yields an empty slice.
func (s *MessageService) ListByAccount(ctx context.Context, accountID int64) ([]dom.Message, error) {
	if s.cache == nil {
		return s.messages.ListByAccount(ctx, accountID)
	}
	return s.cached(ctx, "account:"+strconv.FormatInt(accountID, 10),
		func(ctx context.Context) ([]dom.Message, error) { return s.cache.GetByAccount(ctx, accountID) },
		func(ctx context.Context, gen int64, list []dom.Message) error {
			return s.cache.SetByAccount(ctx, accountID, gen, list)
		},
		func(ctx context.Context) ([]dom.Message, error) { return s.messages.ListByAccount(ctx, accountID) },
	)
}

// Update replaces the text of an existing message and returns the row as
// re-read after the write.
func (s *MessageService) Update(ctx context.Context, id int64, text string) (dom.Message, error) {
	if err := validateMessageText(text); err != nil {
		return dom.Message{}, err
	}
	if _, err := s.messages.GetByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Message{}, ErrMessageNotFound
		}
		return dom.Message{}, err
	}
	if err := s.messages.UpdateText(ctx, id, text); err != nil {
		return dom.Message{}, err
	}
	s.invalidateCache(ctx)

	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Message{}, ErrMessageNotFound
		}
		return dom.Message{}, err
	}
	return m, nil
}

// Delete removes a message and returns it. ErrNotFound means there was
// nothing to delete.
func (s *MessageService) Delete(ctx context.Context, id int64) (dom.Message, error) {
	m, err := s.messages.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Message{}, ErrNotFound
		}
		return dom.Message{}, err
	}
	s.invalidateCache(ctx)
	return m, nil
}

// cached serves a list from Redis or loads and stores it. Concurrent
// callers share one load per generation, so a caller that arrives after a
// write never joins a load that started before it. The shared load is
// detached from any single caller's cancellation.
func (s *MessageService) cached(
	ctx context.Context,
	key string,
	get func(context.Context) ([]dom.Message, error),
	set func(context.Context, int64, []dom.Message) error,
	load func(context.Context) ([]dom.Message, error),
) ([]dom.Message, error) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn("message cache generation", zap.String("key", key), zap.Error(err))
		return load(ctx)
	}

	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key+"@"+strconv.FormatInt(gen, 10), func() (interface{}, error) {
		list, err := get(shared)
		if err == nil && list != nil {
			return list, nil
		}
		if err != nil {
			s.log.Warn("message cache read", zap.String("key", key), zap.Error(err))
		}
		list, err = load(shared)
		if err != nil {
			return nil, err
		}
		switch err := set(shared, gen, list); {
		case errors.Is(err, cache.ErrStale):
			s.log.Debug("message cache write skipped, list changed during load", zap.String("key", key))
		case err != nil:
			s.log.Warn("message cache write", zap.String("key", key), zap.Error(err))
		}
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]dom.Message), nil
	}
}

func (s *MessageService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// The write is committed; a cancelled request must not skip this.
	if err := s.cache.InvalidateAll(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("message cache invalidate", zap.Error(err))
	}
}
