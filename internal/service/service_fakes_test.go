package service

import (
	"context"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// --- Test doubles shared by the service tests ---

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	ads            *fakeAdRepo
	recs           *fakeRecommendationRepo
	credits        *fakeCreditRepo
	featureResults *fakeFeatureResultRepo

	begins    int
	commits   int
	rollbacks int
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begins++; return nil }
func (u *fakeUow) Commit() error                   { u.commits++; return nil }
func (u *fakeUow) Rollback() error                 { u.rollbacks++; return nil }

func (u *fakeUow) AdRepository() contract.AdRepository             { return u.ads }
func (u *fakeUow) FavoriteRepository() contract.FavoriteRepository { return nil }
func (u *fakeUow) AiCacheRepository() contract.AiCacheRepository   { return nil }
func (u *fakeUow) UsageLogRepository() contract.UsageLogRepository { return nil }
func (u *fakeUow) FeatureResultRepository() contract.FeatureResultRepository {
	return u.featureResults
}
func (u *fakeUow) RecommendationRepository() contract.RecommendationRepository { return u.recs }
func (u *fakeUow) AdEmbeddingRepository() contract.AdEmbeddingRepository       { return nil }
func (u *fakeUow) CreditRepository() contract.CreditRepository                 { return u.credits }

type fakeAdRepo struct {
	ads           map[uuid.UUID]*entity.Ad
	findAllResult []*entity.Ad
	findAllSpecs  [][]specification.Specification
	findAllErr    error
}

func newFakeAdRepo(ads ...*entity.Ad) *fakeAdRepo {
	byId := make(map[uuid.UUID]*entity.Ad, len(ads))
	for _, ad := range ads {
		byId[ad.Id] = ad
	}
	return &fakeAdRepo{ads: byId}
}

func (r *fakeAdRepo) Create(ctx context.Context, ad *entity.Ad) error {
	r.ads[ad.Id] = ad
	return nil
}

func (r *fakeAdRepo) Update(ctx context.Context, ad *entity.Ad) error {
	r.ads[ad.Id] = ad
	return nil
}

func (r *fakeAdRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.ads, id)
	return nil
}

func (r *fakeAdRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ad, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.ads[byId.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeAdRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ad, error) {
	r.findAllSpecs = append(r.findAllSpecs, specs)
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	return r.findAllResult, nil
}

func (r *fakeAdRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.ads)), nil
}

type fakeRecommendationRepo struct {
	valid        *entity.AdRecommendation
	findValidErr error
	upserted     []*entity.AdRecommendation
	upsertErr    error
	hits         []uuid.UUID
	deleted      []uuid.UUID
}

func (r *fakeRecommendationRepo) FindValid(ctx context.Context, adId uuid.UUID, now time.Time) (*entity.AdRecommendation, error) {
	if r.findValidErr != nil {
		return nil, r.findValidErr
	}
	if r.valid != nil && r.valid.AdId == adId && now.Before(r.valid.ExpiresAt) {
		return r.valid, nil
	}
	return nil, nil
}

func (r *fakeRecommendationRepo) Upsert(ctx context.Context, rec *entity.AdRecommendation) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, rec)
	return nil
}

func (r *fakeRecommendationRepo) RecordHit(ctx context.Context, id uuid.UUID) error {
	r.hits = append(r.hits, id)
	return nil
}

func (r *fakeRecommendationRepo) DeleteByAdId(ctx context.Context, adId uuid.UUID) error {
	r.deleted = append(r.deleted, adId)
	return nil
}

type fakeCreditRepo struct {
	packages     map[uuid.UUID]*entity.CreditPackage
	transactions map[uuid.UUID]*entity.CreditTransaction

	packageLookups int
	created        []*entity.CreditTransaction
	updated        []*entity.CreditTransaction
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{
		packages:     make(map[uuid.UUID]*entity.CreditPackage),
		transactions: make(map[uuid.UUID]*entity.CreditTransaction),
	}
}

func (r *fakeCreditRepo) FindActivePackages(ctx context.Context) ([]*entity.CreditPackage, error) {
	r.packageLookups++
	var res []*entity.CreditPackage
	for _, p := range r.packages {
		if p.Active {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *fakeCreditRepo) FindPackageById(ctx context.Context, id uuid.UUID) (*entity.CreditPackage, error) {
	r.packageLookups++
	return r.packages[id], nil
}

func (r *fakeCreditRepo) CreateTransaction(ctx context.Context, trx *entity.CreditTransaction) error {
	r.created = append(r.created, trx)
	r.transactions[trx.Id] = trx
	return nil
}

func (r *fakeCreditRepo) FindTransactionById(ctx context.Context, id uuid.UUID) (*entity.CreditTransaction, error) {
	return r.transactions[id], nil
}

func (r *fakeCreditRepo) UpdateTransaction(ctx context.Context, trx *entity.CreditTransaction) error {
	r.updated = append(r.updated, trx)
	r.transactions[trx.Id] = trx
	return nil
}

type fakeFeatureResultRepo struct {
	created  []*entity.FeatureResult
	upserted []*entity.FeatureResult
}

func (r *fakeFeatureResultRepo) Create(ctx context.Context, result *entity.FeatureResult) error {
	r.created = append(r.created, result)
	return nil
}

func (r *fakeFeatureResultRepo) UpsertByAd(ctx context.Context, result *entity.FeatureResult) error {
	r.upserted = append(r.upserted, result)
	return nil
}

func (r *fakeFeatureResultRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureResult, error) {
	return nil, nil
}

func (r *fakeFeatureResultRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureResult, error) {
	return nil, nil
}
