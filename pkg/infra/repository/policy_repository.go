package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgecloak/edgecloak/pkg/domain/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type policyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) policy.Repository {
	return &policyRepository{db: db}
}

func (r *policyRepository) GetByHostname(ctx context.Context, hostname string) (*policy.DomainPolicy, error) {
	var entity policy.DomainPolicy
	err := r.db.WithContext(ctx).Where("hostname = ?", hostname).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to fetch policy by hostname: %w", err)
	}
	return &entity, nil
}

func (r *policyRepository) GetByID(ctx context.Context, id uuid.UUID) (*policy.DomainPolicy, error) {
	var entity policy.DomainPolicy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to fetch policy by id: %w", err)
	}
	return &entity, nil
}

// GetBlocklists reads the four blocklists for a policy. A failure here is
// fatal for the request being classified: the pipeline cannot fail open on
// policy data the way it does on external lookups.
func (r *policyRepository) GetBlocklists(ctx context.Context, policyID uuid.UUID) (*policy.Blocklists, error) {
	var lists policy.Blocklists

	if err := r.db.WithContext(ctx).Where("policy_id = ?", policyID).Find(&lists.ASNs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch asn blocklist: %w", err)
	}
	if err := r.db.WithContext(ctx).Where("policy_id = ?", policyID).Find(&lists.Countries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch country blocklist: %w", err)
	}
	if err := r.db.WithContext(ctx).Where("policy_id = ?", policyID).Find(&lists.States).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch state blocklist: %w", err)
	}
	if err := r.db.WithContext(ctx).Where("policy_id = ?", policyID).Find(&lists.IPs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch ip blocklist: %w", err)
	}

	return &lists, nil
}
