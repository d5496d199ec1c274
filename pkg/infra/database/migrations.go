package database

import (
	"github.com/edgecloak/edgecloak/pkg/domain/accesslog"
	"github.com/edgecloak/edgecloak/pkg/domain/policy"
)

func (db *DB) migrate() error {
	db.logger.Info("applying database migrations")
	return db.AutoMigrate(
		&policy.DomainPolicy{},
		&policy.AsnBlock{},
		&policy.CountryBlock{},
		&policy.StateBlock{},
		&policy.IpBlock{},
		&accesslog.AccessLog{},
	)
}
