package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/mroth/weightedrand/v2"
	"github.com/samber/do"

	"talktoearn/internal/interfaces"
	"talktoearn/internal/models"
	"talktoearn/internal/pkg/caching"
	"talktoearn/internal/pkg/qrtoken"
	"talktoearn/internal/pkg/query"
)

// ServiceBounty owns the bounty lifecycle. Every mutation is a
// load-mutate-conditional-save cycle against the record store; a stale
// write reruns the whole cycle up to CONFLICT_RETRY_LIMIT times.
type ServiceBounty struct {
	store         interfaces.RecordStore
	ledger        interfaces.Ledger
	cache         caching.Cache
	rs            *redsync.Redsync
	limiter       interfaces.Limiter
	bot           *Bot
	serviceUser   *ServiceUser
	ledgerTimeout time.Duration
}

func NewServiceBounty(container *do.Injector) (*ServiceBounty, error) {
	store, err := do.Invoke[interfaces.RecordStore](container)
	if err != nil {
		return nil, err
	}

	// everything past the store is optional capability wiring
	ledger, _ := do.Invoke[interfaces.Ledger](container)
	cache, _ := do.Invoke[caching.Cache](container)
	rs, _ := do.Invoke[*redsync.Redsync](container)
	rateLimiter, _ := do.Invoke[interfaces.Limiter](container)
	bot, _ := do.Invoke[*Bot](container)
	serviceUser, _ := do.Invoke[*ServiceUser](container)

	return &ServiceBounty{
		store:         store,
		ledger:        ledger,
		cache:         cache,
		rs:            rs,
		limiter:       rateLimiter,
		bot:           bot,
		serviceUser:   serviceUser,
		ledgerTimeout: LEDGER_CALL_TIMEOUT,
	}, nil
}

// CreateBountyParams carries the bounty form as posted: numeric fields
// arrive as strings and are parsed here.
type CreateBountyParams struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Reward          string `json:"reward"`
	StakeAmount     string `json:"stake_amount"`
	Category        string `json:"category"`
	Deadline        string `json:"deadline"`
	Location        string `json:"location"`
	Requirements    string `json:"requirements"`
	MaxParticipants string `json:"max_participants"`
}

func (service *ServiceBounty) CreateBounty(ctx context.Context, owner string, params CreateBountyParams) (*models.Bounty, error) {
	if owner == "" {
		return nil, errorx.Wrap(fmt.Errorf("%w: missing owner", ErrValidation), errorx.Invalid)
	}

	if service.limiter != nil {
		err := service.limiter.Allow(ctx, LimitKeyCreateBounty(owner), redis_rate.PerMinute(CREATE_BOUNTY_RATE_LIMIT_PER_MINUTE))
		if err != nil {
			if errors.Is(err, limiter.ErrRateLimited) {
				return nil, errorx.Wrap(err, errorx.RateLimiting)
			}
			return nil, err
		}
	}

	draft, err := buildBounty(owner, params)
	if err != nil {
		return nil, err
	}

	if draft.StakeAmount != nil && service.ledger != nil {
		receipt, err := service.lockStake(ctx, draft)
		if err != nil {
			return nil, errorx.Wrap(fmt.Errorf("%w: %v", ErrExternalAction, err), errorx.Other)
		}
		draft.StakeReceipt = receipt
	}

	return service.update(ctx, func(records []models.Bounty) ([]models.Bounty, *models.Bounty, error) {
		for _, record := range records {
			if record.ID == draft.ID {
				// uuid collision is not a thing we expect; reassign anyway
				draft.ID = uuid.NewString()
			}
		}
		records = append([]models.Bounty{*draft}, records...)
		return records, draft, nil
	})
}

func buildBounty(owner string, params CreateBountyParams) (*models.Bounty, error) {
	title := strings.TrimSpace(params.Title)
	description := strings.TrimSpace(params.Description)
	if title == "" {
		return nil, errorx.Wrap(fmt.Errorf("%w: title is required", ErrValidation), errorx.Invalid)
	}
	if description == "" {
		return nil, errorx.Wrap(fmt.Errorf("%w: description is required", ErrValidation), errorx.Invalid)
	}

	reward, err := parsePositiveAmount(params.Reward)
	if err != nil {
		return nil, errorx.Wrap(fmt.Errorf("%w: reward must be a positive number", ErrValidation), errorx.Invalid)
	}

	bounty := &models.Bounty{
		ID:           uuid.NewString(),
		Type:         models.ListingKindBounty,
		Title:        title,
		Description:  description,
		Reward:       reward,
		Category:     models.NormalizeCategory(strings.TrimSpace(params.Category)),
		Location:     strings.TrimSpace(params.Location),
		Requirements: strings.TrimSpace(params.Requirements),
		Owner:        owner,
		Applicants:   []string{},
		Status:       models.BountyStatusActive,
		CreatedAt:    time.Now(),
	}

	if params.StakeAmount != "" {
		stake, err := parsePositiveAmount(params.StakeAmount)
		if err != nil {
			return nil, errorx.Wrap(fmt.Errorf("%w: stake amount must be a positive number", ErrValidation), errorx.Invalid)
		}
		bounty.StakeAmount = &stake
	}

	if params.Deadline != "" {
		// deliberately not ordered against CreatedAt
		deadline, err := time.Parse(time.RFC3339, params.Deadline)
		if err != nil {
			return nil, errorx.Wrap(fmt.Errorf("%w: deadline must be RFC 3339", ErrValidation), errorx.Invalid)
		}
		bounty.Deadline = &deadline
	}

	if params.MaxParticipants != "" {
		max, err := strconv.Atoi(params.MaxParticipants)
		if err != nil || max <= 0 {
			return nil, errorx.Wrap(fmt.Errorf("%w: max participants must be a positive integer", ErrValidation), errorx.Invalid)
		}
		bounty.MaxParticipants = &max
	}

	return bounty, nil
}

func parsePositiveAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, errors.New("not a positive finite amount")
	}
	return amount, nil
}

func (service *ServiceBounty) lockStake(ctx context.Context, bounty *models.Bounty) (*models.TransactionReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, service.ledgerTimeout)
	defer cancel()

	var durationUnits int64
	if bounty.Deadline != nil {
		remaining := time.Until(*bounty.Deadline)
		if remaining > 0 {
			durationUnits = int64(remaining / (24 * time.Hour))
		}
	}

	return service.ledger.LockStake(ctx, bounty.Category, bounty.Description, durationUnits, bounty.Reward)
}

func (service *ServiceBounty) ApplyToBounty(ctx context.Context, bountyID, applicantID string) (*models.Bounty, error) {
	if service.rs != nil {
		mutex := service.rs.NewMutex(LockKeyBounty(bountyID))
		if err := mutex.Lock(); err == nil {
			// nolint:errcheck
			defer mutex.Unlock()
		}
	}

	bounty, err := service.update(ctx, func(records []models.Bounty) ([]models.Bounty, *models.Bounty, error) {
		i := indexOf(records, bountyID)
		if i < 0 {
			return nil, nil, errorx.Wrap(ErrBountyNotFound, errorx.NotExist)
		}
		record := &records[i]

		if record.Owner == applicantID {
			return nil, nil, errorx.Wrap(ErrSelfApplication, errorx.Invalid)
		}
		if record.HasApplicant(applicantID) {
			return nil, nil, errorx.Wrap(ErrAlreadyApplied, errorx.Invalid)
		}
		if record.Closed() {
			return nil, nil, errorx.Wrap(ErrBountyClosed, errorx.Invalid)
		}

		if service.ledger != nil && record.StakeAmount != nil {
			callCtx, cancel := context.WithTimeout(ctx, service.ledgerTimeout)
			_, err := service.ledger.ConfirmAcceptance(callCtx, record.ID)
			cancel()
			if err != nil {
				return nil, nil, errorx.Wrap(fmt.Errorf("%w: %v", ErrExternalAction, err), errorx.Other)
			}
		}

		record.Applicants = append(append([]string{}, record.Applicants...), applicantID)
		return records, record, nil
	})
	if err != nil {
		return nil, err
	}

	service.notifyOwner(ctx, bounty, fmt.Sprintf("New application for <b>%s</b> from %s", bounty.Title, applicantID))
	return bounty, nil
}

// WithdrawApplication is idempotent: withdrawing an application that was
// never made succeeds.
func (service *ServiceBounty) WithdrawApplication(ctx context.Context, bountyID, applicantID string) (*models.Bounty, error) {
	return service.update(ctx, func(records []models.Bounty) ([]models.Bounty, *models.Bounty, error) {
		i := indexOf(records, bountyID)
		if i < 0 {
			return nil, nil, errorx.Wrap(ErrBountyNotFound, errorx.NotExist)
		}
		record := &records[i]

		if !record.HasApplicant(applicantID) {
			return records, record, nil
		}

		applicants := make([]string, 0, len(record.Applicants)-1)
		for _, applicant := range record.Applicants {
			if applicant != applicantID {
				applicants = append(applicants, applicant)
			}
		}
		record.Applicants = applicants
		return records, record, nil
	})
}

func (service *ServiceBounty) CancelBounty(ctx context.Context, bountyID, actingUser string) (*models.Bounty, error) {
	return service.close(ctx, bountyID, actingUser, models.BountyStatusCancelled)
}

// FulfillBounty accepts the trusted completion signal; it does not
// validate QR payloads itself.
func (service *ServiceBounty) FulfillBounty(ctx context.Context, bountyID, actingUser string) (*models.Bounty, error) {
	return service.close(ctx, bountyID, actingUser, models.BountyStatusFulfilled)
}

func (service *ServiceBounty) close(ctx context.Context, bountyID, actingUser string, status models.BountyStatus) (*models.Bounty, error) {
	return service.update(ctx, func(records []models.Bounty) ([]models.Bounty, *models.Bounty, error) {
		i := indexOf(records, bountyID)
		if i < 0 {
			return nil, nil, errorx.Wrap(ErrBountyNotFound, errorx.NotExist)
		}
		record := &records[i]

		if record.Owner != actingUser {
			return nil, nil, errorx.Wrap(ErrNotOwner, errorx.Authn)
		}
		if record.Closed() {
			return nil, nil, errorx.Wrap(ErrAlreadyClosed, errorx.Invalid)
		}

		record.Status = status
		return records, record, nil
	})
}

func (service *ServiceBounty) DeleteBounty(ctx context.Context, bountyID, actingUser string) error {
	_, err := service.update(ctx, func(records []models.Bounty) ([]models.Bounty, *models.Bounty, error) {
		i := indexOf(records, bountyID)
		if i < 0 {
			return nil, nil, errorx.Wrap(ErrBountyNotFound, errorx.NotExist)
		}
		if records[i].Owner != actingUser {
			return nil, nil, errorx.Wrap(ErrNotOwner, errorx.Authn)
		}

		removed := records[i]
		records = append(records[:i], records[i+1:]...)
		return records, &removed, nil
	})
	return err
}

func (service *ServiceBounty) GetBounty(ctx context.Context, bountyID string) (*models.Bounty, error) {
	records, err := service.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(records, bountyID)
	if i < 0 {
		return nil, errorx.Wrap(ErrBountyNotFound, errorx.NotExist)
	}
	return &records[i], nil
}

// ListListings returns the whole collection, bounties and hangouts alike.
func (service *ServiceBounty) ListListings(ctx context.Context) ([]models.Bounty, error) {
	callback := func() ([]models.Bounty, error) {
		records, _, err := service.store.LoadAll(ctx)
		return records, err
	}

	if service.cache == nil {
		return callback()
	}
	return caching.UseCache(ctx, service.cache, DBKeyBounties(), CACHE_TTL_5_SECONDS, callback)
}

func (service *ServiceBounty) Search(ctx context.Context, params query.Params) ([]models.Bounty, error) {
	records, err := service.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	return query.Search(records, params), nil
}

// Featured picks one active bounty for the home screen, weighted by reward
// so bigger rewards surface more often.
func (service *ServiceBounty) Featured(ctx context.Context) (*models.Bounty, error) {
	active, err := service.Search(ctx, query.Params{
		Kind:   models.ListingKindBounty,
		Status: models.BountyStatusActive,
	})
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, errorx.Wrap(ErrNoActiveBounties, errorx.NotExist)
	}

	choices := make([]weightedrand.Choice[models.Bounty, int64], 0, len(active))
	for _, bounty := range active {
		weight := int64(bounty.Reward*100) + 1
		choices = append(choices, weightedrand.NewChoice(bounty, weight))
	}

	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	picked := chooser.Pick()
	return &picked, nil
}

// BountyToken mints the QR payload the owner shows at the meetup.
func (service *ServiceBounty) BountyToken(ctx context.Context, bountyID, actingUser string) (string, error) {
	bounty, err := service.GetBounty(ctx, bountyID)
	if err != nil {
		return "", err
	}
	if bounty.Owner != actingUser {
		return "", errorx.Wrap(ErrNotOwner, errorx.Authn)
	}

	return qrtoken.MintBountyToken(bounty.ID, bounty.Owner, time.Now()), nil
}

type ScanResult struct {
	Kind   string         `json:"kind"`
	Bounty *models.Bounty `json:"bounty,omitempty"`
	UserID string         `json:"user_id,omitempty"`
}

// ConfirmScan routes a scanned token by its namespace prefix: bounty
// tokens complete the bounty, user tokens confirm a profile. Possession of
// a well-formed bounty token is the fulfillment signal, so the close runs
// as the owner embedded in the token, not as the scanner.
func (service *ServiceBounty) ConfirmScan(ctx context.Context, actingUser, raw string) (*ScanResult, error) {
	token, err := qrtoken.Parse(raw)
	if err != nil {
		return nil, errorx.Wrap(fmt.Errorf("%w: %v", ErrValidation, err), errorx.Invalid)
	}

	switch token.Kind {
	case qrtoken.KindBounty:
		bounty, err := service.FulfillBounty(ctx, token.BountyID, token.Owner)
		if err != nil {
			return nil, err
		}
		return &ScanResult{Kind: models.ListingKindBounty, Bounty: bounty}, nil
	default:
		return &ScanResult{Kind: "user", UserID: token.UserID}, nil
	}
}

// update runs one optimistic read-modify-write cycle, retrying on stale
// writes. mutate returns the full collection to persist plus the record to
// hand back.
func (service *ServiceBounty) update(ctx context.Context, mutate func([]models.Bounty) ([]models.Bounty, *models.Bounty, error)) (*models.Bounty, error) {
	for attempt := 0; attempt < CONFLICT_RETRY_LIMIT; attempt++ {
		records, version, err := service.store.LoadAll(ctx)
		if err != nil {
			return nil, err
		}

		updated, changed, err := mutate(records)
		if err != nil {
			return nil, err
		}

		err = service.store.SaveAll(ctx, updated, version)
		if errors.Is(err, interfaces.ErrStaleWrite) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if service.cache != nil {
			//nolint:errcheck
			service.cache.Delete(ctx, DBKeyBounties())
		}
		result := *changed
		return &result, nil
	}

	return nil, errorx.Wrap(ErrConflict, errorx.Other)
}

func (service *ServiceBounty) notifyOwner(ctx context.Context, bounty *models.Bounty, text string) {
	if service.bot == nil || service.serviceUser == nil {
		return
	}

	owner, err := service.serviceUser.FindUserByID(ctx, bounty.Owner)
	if err != nil || owner.TelegramID == 0 {
		return
	}

	if err := service.bot.SendMsg(owner.TelegramID, text); err != nil {
		log.Println("notify owner:", err)
	}
}

func indexOf(records []models.Bounty, bountyID string) int {
	for i := range records {
		if records[i].ID == bountyID {
			return i
		}
	}
	return -1
}
