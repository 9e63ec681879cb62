package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"Yatube/api/cache"
	"Yatube/api/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("feed: not found")

const (
	// IndexCachePrefix namespaces cached global feed pages.
	IndexCachePrefix = "index_page:"
	// IndexPagesKey holds the page count of the cached global feed.
	IndexPagesKey = IndexCachePrefix + "count"
	// DefaultIndexTTL is how long a cached global feed page is served.
	DefaultIndexTTL = 20 * time.Second
)

var indexCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "yatube_index_cache_requests_total",
	Help: "Global feed cache lookups by result.",
}, []string{"result"})

// Service composes paginated post feeds.
type Service struct {
	db        *gorm.DB
	store     cache.Store
	paginator Paginator
	indexTTL  time.Duration
}

type Option func(*Service)

func WithPageSize(n int) Option {
	return func(s *Service) { s.paginator.PerPage = n }
}

func WithIndexTTL(ttl time.Duration) Option {
	return func(s *Service) { s.indexTTL = ttl }
}

func NewService(db *gorm.DB, store cache.Store, opts ...Option) *Service {
	s := &Service{
		db:        db,
		store:     store,
		paginator: Paginator{PerPage: DefaultPageSize},
		indexTTL:  DefaultIndexTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Global lists every post, newest first.
func (s *Service) Global(ctx context.Context, number int) (*Page, error) {
	return s.paginate(ctx, func(db *gorm.DB) *gorm.DB { return db }, number)
}

// GlobalCached serves Global through the page cache. Entries are never
// invalidated on write; a new post shows up once the entry expires. Pages are
// keyed by the page actually served, so out-of-range numbers share the last
// page's entry.
func (s *Service) GlobalCached(ctx context.Context, number int) (*Page, error) {
	if s.store == nil {
		return s.Global(ctx, number)
	}

	number = s.clampCached(ctx, number)
	key := indexPageKey(number)
	var page Page
	ok, err := cache.GetJSON(ctx, s.store, key, &page)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("index cache read failed")
	}
	if ok {
		indexCacheRequests.WithLabelValues("hit").Inc()
		return &page, nil
	}
	indexCacheRequests.WithLabelValues("miss").Inc()

	fresh, err := s.Global(ctx, number)
	if err != nil {
		return nil, err
	}
	key = indexPageKey(fresh.Number)
	if err := cache.SetJSON(ctx, s.store, key, fresh, s.indexTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("index cache write failed")
	}
	if err := cache.SetJSON(ctx, s.store, IndexPagesKey, fresh.NumPages, s.indexTTL); err != nil {
		log.Warn().Err(err).Str("key", IndexPagesKey).Msg("index cache write failed")
	}
	return fresh, nil
}

// clampCached bounds number by the page count cached with the last fill.
// Without one, Global clamps on the miss and the result is stored under the
// page it served.
func (s *Service) clampCached(ctx context.Context, number int) int {
	if number < 1 {
		return 1
	}
	var numPages int
	ok, err := cache.GetJSON(ctx, s.store, IndexPagesKey, &numPages)
	if err != nil {
		log.Warn().Err(err).Str("key", IndexPagesKey).Msg("index cache read failed")
	}
	if ok && numPages >= 1 && number > numPages {
		return numPages
	}
	return number
}

func indexPageKey(number int) string {
	return IndexCachePrefix + strconv.Itoa(number)
}

// ClearIndex drops every cached global feed page.
func (s *Service) ClearIndex(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.DeleteByPrefix(ctx, IndexCachePrefix)
}

// ByGroup lists the posts of the group with the given slug.
func (s *Service) ByGroup(ctx context.Context, slug string, number int) (*models.Group, *Page, error) {
	group, err := models.FindGroupBySlug(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, nil, notFound(err, "group "+slug)
	}
	page, err := s.paginate(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.group_id = ?", group.ID)
	}, number)
	if err != nil {
		return nil, nil, err
	}
	return group, page, nil
}

// ByAuthor lists the posts written by username.
func (s *Service) ByAuthor(ctx context.Context, username string, number int) (*models.User, *Page, error) {
	author, err := (&models.User{}).FindUserByUsername(s.db.WithContext(ctx), username)
	if err != nil {
		return nil, nil, notFound(err, "user "+username)
	}
	page, err := s.paginate(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", author.ID)
	}, number)
	if err != nil {
		return nil, nil, err
	}
	return author, page, nil
}

// Followed lists the posts of every author viewerID follows.
func (s *Service) Followed(ctx context.Context, viewerID uint, number int) (*Page, error) {
	return s.paginate(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id IN (?)", models.FollowedIDs(s.db.WithContext(ctx), viewerID))
	}, number)
}

func (s *Service) paginate(ctx context.Context, scope func(*gorm.DB) *gorm.DB, number int) (*Page, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Post{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	number = s.paginator.Clamp(number, count)
	posts := []models.Post{}
	err := db.Model(&models.Post{}).Scopes(scope).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at desc").
		Order("posts.id desc").
		Offset(s.paginator.Offset(number)).
		Limit(s.paginator.perPage()).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if err := attachCommentCounts(db, posts); err != nil {
		return nil, err
	}

	return &Page{
		Posts:    posts,
		Number:   number,
		NumPages: s.paginator.NumPages(count),
		Count:    count,
		PerPage:  s.paginator.perPage(),
	}, nil
}

func attachCommentCounts(db *gorm.DB, posts []models.Post) error {
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	counts, err := models.CountPostComments(db, ids)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
