package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"talktoearn/internal/datastore/filestore"
	"talktoearn/internal/datastore/redis_store"
	"talktoearn/internal/interfaces"
	"talktoearn/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			injector := do.New()

			do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
				return getDb()
			})

			do.Provide(injector, func(i *do.Injector) (interfaces.RecordStore, error) {
				if os.Getenv("BOUNTY_STORE") == "file" {
					path := os.Getenv("BOUNTY_FILE_PATH")
					if path == "" {
						path = "./bounties.db"
					}
					return filestore.New(path), nil
				}

				dbRedis, err := getRedis("REDIS_DB", "CLUSTER_REDIS_DB")
				if err != nil {
					return nil, err
				}
				return redis_store.NewRecordStore(dbRedis, services.BOUNTY_COLLECTION), nil
			})

			do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
				dbRedis, err := getRedis("REDIS_MUTEX", "CLUSTER_REDIS_MUTEX")
				if err != nil {
					return nil, err
				}
				return redsync.New(goredis.NewPool(dbRedis)), nil
			})

			serviceArchive, err := services.NewServiceArchive(injector)
			if err != nil {
				return err
			}

			schedule := os.Getenv("CRONJOB_TIME_ARCHIVE")
			if schedule == "" {
				schedule = "@every 1h"
			}

			cronRunner := cron.New()
			_, err = cronRunner.AddFunc(schedule, func() {
				count, err := serviceArchive.SweepClosed(context.Background())
				if err != nil {
					log.Println("archive sweep:", err)
					return
				}
				if count > 0 {
					log.Println("archive sweep moved", count, "bounties")
				}
			})
			if err != nil {
				return err
			}

			log.Println("Start cronjob")
			cronRunner.Run()
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func getRedis(urlEnv, clusterEnv string) (redis.UniversalClient, error) {
	clusterRedisURL := os.Getenv(clusterEnv)
	if clusterRedisURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterRedisURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClusterClient(clusterOpts), nil
	}

	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv(urlEnv),
	})
}
