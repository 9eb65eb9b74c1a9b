package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"talktoearn/internal/models"
)

func CreateTableBountyArchive(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.BountyArchive)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BountyArchive)(nil)).Index("index_bounty_archive_owner").IfNotExists().Column("owner").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BountyArchive)(nil)).Index("index_bounty_archive_status").IfNotExists().Column("status").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertBountyArchives(ctx context.Context, db *bun.DB, archives []*models.BountyArchive) error {
	if len(archives) == 0 {
		return nil
	}

	_, err := db.NewInsert().Model(&archives).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return err
}

func GetBountyArchivesByOwner(ctx context.Context, db *bun.DB, owner string) ([]models.BountyArchive, error) {
	var archives []models.BountyArchive
	err := db.NewSelect().Model(&archives).Where("owner = ?", owner).Order("archived_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return archives, nil
}
