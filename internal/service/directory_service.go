package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/auth"
	"github.com/spec-kit/employee-directory/internal/cache"
	"github.com/spec-kit/employee-directory/internal/directory"
	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/repository"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

// DirectoryService answers listing queries, serving repeat pages from cache.
type DirectoryService struct {
	employees repository.EmployeeRepository
	pages     cache.PageCache
	metrics   *observability.Metrics
	logger    *zap.Logger
	timeout   time.Duration
}

// DirectoryDependencies bundles collaborators for the directory service.
type DirectoryDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	PageCache    cache.PageCache
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	QueryTimeout time.Duration
}

// NewDirectoryService constructs the service. A nil cache disables caching.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	pages := deps.PageCache
	if pages == nil {
		pages = cache.Noop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		employees: deps.EmployeeRepo,
		pages:     pages,
		metrics:   deps.Metrics,
		logger:    logger,
		timeout:   deps.QueryTimeout,
	}
}

// Query returns one page of the filtered, ordered directory.
func (s *DirectoryService) Query(ctx context.Context, principal *domain.Principal, query directory.Query) (directory.Page, error) {
	if err := auth.Check(principal, auth.AnyAuthenticated); err != nil {
		return directory.Page{}, err
	}
	params, err := query.Params()
	if err != nil {
		return directory.Page{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cached, key, hit, err := s.pages.Get(ctx, params)
	switch {
	case err != nil:
		s.metrics.RecordCacheLookup("error")
		s.logger.Warn("directory cache read failed", zap.Error(err))
		key = ""
	case hit:
		s.metrics.RecordCacheLookup("hit")
		return cached, nil
	default:
		s.metrics.RecordCacheLookup("miss")
	}

	entries, total, err := s.employees.List(ctx, params)
	if err != nil {
		return directory.Page{}, apperrors.MapError(err)
	}
	page := directory.NewPage(entries, total, params)

	if err := s.pages.Set(ctx, key, page); err != nil {
		s.logger.Warn("directory cache write failed", zap.Error(err))
	}
	return page, nil
}
