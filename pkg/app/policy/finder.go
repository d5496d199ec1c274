package policy

import (
	"context"
	"errors"

	"github.com/edgecloak/edgecloak/pkg/cache"
	domain "github.com/edgecloak/edgecloak/pkg/domain/policy"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Finder resolves a hostname to its DomainPolicy. The hostname→id binding is
// cached; the policy record itself is read fresh every request so operator
// changes (lockdown above all) are visible immediately.
type Finder interface {
	FindByHostname(ctx context.Context, hostname string) (*domain.DomainPolicy, error)
}

type finder struct {
	repo   domain.Repository
	cache  *cache.Cache
	logger *logrus.Logger
}

func NewFinder(repo domain.Repository, cache *cache.Cache, logger *logrus.Logger) Finder {
	return &finder{repo: repo, cache: cache, logger: logger}
}

func (f *finder) FindByHostname(ctx context.Context, hostname string) (*domain.DomainPolicy, error) {
	cachedID, err := f.cache.GetPolicyID(ctx, hostname)
	if err != nil {
		f.logger.WithError(err).WithField("hostname", hostname).
			Warn("failed to read hostname binding from cache")
	}

	if cachedID != "" {
		id, err := uuid.Parse(cachedID)
		if err == nil {
			pol, err := f.repo.GetByID(ctx, id)
			if err == nil {
				return pol, nil
			}
			if !errors.Is(err, domain.ErrPolicyNotFound) {
				return nil, err
			}
			// Stale binding: the policy was deleted or re-created.
			if delErr := f.cache.DeletePolicyID(ctx, hostname); delErr != nil {
				f.logger.WithError(delErr).Warn("failed to drop stale hostname binding")
			}
		}
	}

	pol, err := f.repo.GetByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}

	if err := f.cache.SavePolicyID(ctx, hostname, pol.ID.String()); err != nil {
		f.logger.WithError(err).WithField("hostname", hostname).
			Warn("failed to cache hostname binding")
	}

	return pol, nil
}
