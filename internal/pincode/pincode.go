package pincode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"
	"jewelshop/internal/util"

	"go.uber.org/zap"
)

type cacheStore interface {
	GetPincodeEntry(ctx context.Context, pincode string) (*models.PincodeEntry, error)
	UpsertPincodeEntry(ctx context.Context, entry *models.PincodeEntry) error
}

type cache interface {
	GetPincode(ctx context.Context, pincode string) (*models.PincodeEntry, error)
	SetPincode(ctx context.Context, entry *models.PincodeEntry, ttl time.Duration) error
}

// Validator resolves postal codes through a redis cache, a database cache and
// finally an external lookup API. Cache failures degrade to the next tier,
// never to a hard error.
type Validator struct {
	store   cacheStore
	redis   cache
	client  *http.Client
	baseURL string
	ttl     time.Duration
	logger  *zap.Logger
}

// NewValidator creates a pincode validator. redis may be nil; the redis tier
// is then skipped.
func NewValidator(store cacheStore, redis cache, baseURL string, ttl time.Duration) *Validator {
	return &Validator{
		store:   store,
		redis:   redis,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		ttl:     ttl,
		logger:  util.GetLogger(),
	}
}

// apiResponse is the shape of the external lookup API response.
type apiResponse struct {
	Country string `json:"country"`
	Places  []struct {
		PlaceName string `json:"place name"`
		State     string `json:"state"`
	} `json:"places"`
}

// Validate resolves a pincode to locality data, or fails with a validation
// error when the code does not exist.
func (v *Validator) Validate(ctx context.Context, pincode string) (*models.PincodeEntry, error) {
	ctx, span := util.StartSpan(ctx, "pincode.Validate")
	defer span.End()

	if pincode == "" {
		return nil, apperr.Validation("pincode is required")
	}

	if v.redis != nil {
		entry, err := v.redis.GetPincode(ctx, pincode)
		if err != nil {
			v.logger.Warn("Pincode redis lookup failed", zap.Error(err))
		} else if entry != nil {
			util.PincodeCacheHitsTotal.WithLabelValues("redis").Inc()
			return entry, nil
		}
	}

	entry, err := v.store.GetPincodeEntry(ctx, pincode)
	if err != nil {
		v.logger.Warn("Pincode db lookup failed", zap.Error(err))
	} else if entry != nil {
		util.PincodeCacheHitsTotal.WithLabelValues("db").Inc()
		v.cacheInRedis(ctx, entry)
		return entry, nil
	}

	entry, err = v.fetch(ctx, pincode)
	if err != nil {
		return nil, err
	}

	if err := v.store.UpsertPincodeEntry(ctx, entry); err != nil {
		v.logger.Warn("Failed to persist pincode entry", zap.Error(err))
	}
	v.cacheInRedis(ctx, entry)

	return entry, nil
}

// fetch queries the external lookup API.
func (v *Validator) fetch(ctx context.Context, pincode string) (*models.PincodeEntry, error) {
	util.PincodeLookupsTotal.Inc()

	url := fmt.Sprintf("%s/%s", v.baseURL, pincode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "pincode lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperr.Validationf("invalid pincode: %s", pincode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Newf(apperr.KindUnavailable, "pincode lookup returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to decode pincode response", err)
	}
	if len(body.Places) == 0 {
		return nil, apperr.Validationf("invalid pincode: %s", pincode)
	}

	return &models.PincodeEntry{
		Pincode:   pincode,
		City:      body.Places[0].PlaceName,
		State:     body.Places[0].State,
		Country:   body.Country,
		FetchedAt: time.Now(),
	}, nil
}

func (v *Validator) cacheInRedis(ctx context.Context, entry *models.PincodeEntry) {
	if v.redis == nil {
		return
	}
	if err := v.redis.SetPincode(ctx, entry, v.ttl); err != nil {
		v.logger.Warn("Failed to cache pincode in redis", zap.Error(err))
	}
}
