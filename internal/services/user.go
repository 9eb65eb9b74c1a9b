package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/tonkeeper/tongo"

	"talktoearn/internal/datastore/redis_store"
	"talktoearn/internal/models"
	"talktoearn/internal/pkg/qrtoken"
)

var reEVMAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

type ServiceUser struct {
	redisDB redis.UniversalClient
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	return &ServiceUser{db}, nil
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := redis_store.GetUser(ctx, service.redisDB, userID)
	if err == redis.Nil {
		return nil, errorx.Wrap(errors.New("user not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindOrCreateUser materializes a user record for any authenticated
// identity. Identity itself comes from the session token; nothing here
// checks a password.
func (service *ServiceUser) FindOrCreateUser(ctx context.Context, userAuth *models.UserFromAuth) (*models.User, error) {
	if userAuth == nil {
		return nil, errors.New("userAuth is nil")
	}

	user, err := redis_store.GetUser(ctx, service.redisDB, userAuth.ID)
	if err != nil && err != redis.Nil {
		return nil, err
	}

	if user != nil {
		if userAuth.DisplayName != "" && user.DisplayName != userAuth.DisplayName {
			user.DisplayName = userAuth.DisplayName
			return redis_store.SaveUser(ctx, service.redisDB, user)
		}
		return user, nil
	}

	now := time.Now()
	newUser := &models.User{
		ID:          strings.ToLower(userAuth.ID),
		DisplayName: userAuth.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	newUser, err = redis_store.SaveUser(ctx, service.redisDB, newUser)
	if err != nil {
		return nil, err
	}

	newUser.IsNewUser = true
	return newUser, nil
}

// ConnectTONWallet validates the address and copies it onto the user
// record verbatim; no on-chain ownership proof is performed here.
func (service *ServiceUser) ConnectTONWallet(ctx context.Context, user *models.User, address string) (*models.User, error) {
	parsed, err := tongo.ParseAddress(address)
	if err != nil {
		return nil, errorx.Wrap(errors.New("invalid TON address"), errorx.Invalid)
	}

	normalized := parsed.ID.ToRaw()
	user.TONWallet = &normalized
	return redis_store.SaveUser(ctx, service.redisDB, user)
}

func (service *ServiceUser) ConnectEVMWallet(ctx context.Context, user *models.User, address string) (*models.User, error) {
	if !reEVMAddress.MatchString(address) {
		return nil, errorx.Wrap(errors.New("invalid EVM address"), errorx.Invalid)
	}

	user.EVMWallet = &address
	return redis_store.SaveUser(ctx, service.redisDB, user)
}

func (service *ServiceUser) LinkTelegram(ctx context.Context, user *models.User, chatID int64) (*models.User, error) {
	user.TelegramID = chatID
	return redis_store.SaveUser(ctx, service.redisDB, user)
}

// ProfileToken is the payload behind the profile QR code.
func (service *ServiceUser) ProfileToken(user *models.User) string {
	return qrtoken.MintUserToken(user.ID)
}
