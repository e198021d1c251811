package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/repository"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateBundle   = errors.New("duplicate outlook bundle")
	ErrRegenerateLimited = errors.New("regenerate limit reached")
)

const (
	maxHistoryLimit     = 90
	defaultHistoryLimit = 7
)

// OutlookService orquesta la generacion idempotente del outlook diario.
type OutlookService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	activity repository.ActivityRepository
	outlooks repository.OutlookRepository
	weights  *WeightResolver
	selector *ContentSelector

	cache   BundleCache
	limiter RateLimiter
	metrics *OutlookMetrics
	now     func() time.Time
	loc     *time.Location

	group singleflight.Group
}

type OutlookOption func(*OutlookService)

func WithBundleCache(cache BundleCache) OutlookOption {
	return func(s *OutlookService) { s.cache = cache }
}

func WithRegenerateLimiter(limiter RateLimiter) OutlookOption {
	return func(s *OutlookService) { s.limiter = limiter }
}

func WithMetrics(m *OutlookMetrics) OutlookOption {
	return func(s *OutlookService) { s.metrics = m }
}

func WithClock(now func() time.Time) OutlookOption {
	return func(s *OutlookService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation fija la zona horaria que define "hoy".
func WithLocation(loc *time.Location) OutlookOption {
	return func(s *OutlookService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewOutlookService(
	logger *zap.Logger,
	users repository.UserRepository,
	activity repository.ActivityRepository,
	outlooks repository.OutlookRepository,
	weights *WeightResolver,
	selector *ContentSelector,
	opts ...OutlookOption,
) *OutlookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if weights == nil {
		weights = NewWeightResolver(logger)
	}
	s := &OutlookService{
		logger:   logger,
		users:    users,
		activity: activity,
		outlooks: outlooks,
		weights:  weights,
		selector: selector,
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today devuelve el instante actual en la zona horaria configurada.
func (s *OutlookService) Today() time.Time {
	return s.now().In(s.loc)
}

type generation struct {
	outlook domain.DailyOutlook
	created bool
}

// GenerateDailyOutlook devuelve el outlook de (userID, dia de target). Sin force, un bundle
// ya persistido se devuelve sin cambios. Solo ErrUserNotFound y ErrInvalidUserData se
// propagan como errores de dominio.
func (s *OutlookService) GenerateDailyOutlook(ctx context.Context, userID string, target time.Time, force bool) (domain.DailyOutlook, error) {
	outlook, _, err := s.EnsureDailyOutlook(ctx, userID, target, force)
	return outlook, err
}

// EnsureDailyOutlook es GenerateDailyOutlook indicando ademas si el bundle se genero en
// esta llamada (false cuando se reutilizo uno existente).
func (s *OutlookService) EnsureDailyOutlook(ctx context.Context, userID string, target time.Time, force bool) (domain.DailyOutlook, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.DailyOutlook{}, false, ErrUserNotFound
	}
	if target.IsZero() {
		target = s.Today()
	}
	day := target.In(s.loc)
	date := domain.DayKey(day)

	// El trabajo compartido corre sin la cancelacion del primer caller; cada caller
	// deja de esperar cuando se cancela su propio ctx.
	key := fmt.Sprintf("%s|%s|%t", userID, date, force)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), userID, date, day, force)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.DailyOutlook{}, false, ctx.Err()
	case res = <-ch:
	}
	if err := res.Err; err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidUserData) {
			s.metrics.IncGeneration(ResultFailed)
		}
		return domain.DailyOutlook{}, false, err
	}
	g := res.Val.(generation)
	return cloneOutlook(g.outlook), g.created, nil
}

// RegenerateDailyOutlook fuerza la regeneracion del dia actual, limitada por usuario y dia.
// Usuarios inexistentes o invalidos fallan antes de consumir el cupo.
func (s *OutlookService) RegenerateDailyOutlook(ctx context.Context, userID string) (domain.DailyOutlook, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.DailyOutlook{}, ErrUserNotFound
	}
	if _, err := s.loadUserData(ctx, userID); err != nil {
		return domain.DailyOutlook{}, err
	}
	today := s.Today()
	if s.limiter != nil && !s.limiter.Allow(userID+":"+domain.DayKey(today)) {
		return domain.DailyOutlook{}, ErrRegenerateLimited
	}
	return s.GenerateDailyOutlook(ctx, userID, today, true)
}

func (s *OutlookService) generate(ctx context.Context, userID, date string, day time.Time, force bool) (generation, error) {
	start := time.Now()

	data, err := s.loadUserData(ctx, userID)
	if err != nil {
		return generation{}, err
	}

	if !force {
		if existing, ok := s.findExisting(ctx, userID, date); ok {
			s.metrics.IncGeneration(ResultReused)
			return generation{outlook: existing}, nil
		}
	}

	snapshot, err := s.activity.GetSnapshot(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return generation{}, fmt.Errorf("get activity: %w", err)
		}
		snapshot = domain.ActivitySnapshot{UserID: userID}
	}
	data.Activity = snapshot

	outlook := s.assemble(data, date, day)

	if force {
		if err := s.outlooks.Upsert(ctx, outlook); err != nil {
			return generation{}, fmt.Errorf("save outlook: %w", err)
		}
		s.metrics.IncGeneration(ResultRegenerated)
	} else {
		if err := s.outlooks.Create(ctx, outlook); err != nil {
			if !errors.Is(err, repository.ErrDuplicateKey) {
				return generation{}, fmt.Errorf("save outlook: %w", err)
			}
			// Otro worker gano la carrera: se devuelve su bundle.
			existing, ferr := s.outlooks.Find(ctx, userID, date)
			if ferr != nil {
				return generation{}, fmt.Errorf("%w: %v", ErrDuplicateBundle, ferr)
			}
			s.setCache(ctx, existing)
			s.metrics.IncGeneration(ResultReused)
			return generation{outlook: existing}, nil
		}
		s.metrics.IncGeneration(ResultGenerated)
	}

	s.setCache(ctx, outlook)
	s.metrics.ObserveDuration(time.Since(start))
	s.logger.Info("daily outlook generated",
		zap.String("user_id", userID),
		zap.String("date", date),
		zap.Bool("force", force),
		zap.String("insight_template_id", outlook.InsightTemplateID),
		zap.Int("quick_actions", len(outlook.QuickActions)),
	)
	return generation{outlook: outlook, created: true}, nil
}

// loadUserData lee y valida el perfil; el tier se normaliza aqui para todo el motor.
func (s *OutlookService) loadUserData(ctx context.Context, userID string) (UserData, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserData{}, ErrUserNotFound
		}
		return UserData{}, fmt.Errorf("get profile: %w", err)
	}
	profile.Tier = profile.Tier.Normalize()
	data := UserData{Profile: profile}
	if err := data.Validate(); err != nil {
		return UserData{}, err
	}
	return data, nil
}

func (s *OutlookService) findExisting(ctx context.Context, userID, date string) (domain.DailyOutlook, bool) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID, date); ok {
			return cached, true
		}
	}
	existing, err := s.outlooks.Find(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("find outlook failed", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		}
		return domain.DailyOutlook{}, false
	}
	s.setCache(ctx, existing)
	return existing, true
}

func (s *OutlookService) setCache(ctx context.Context, outlook domain.DailyOutlook) {
	if s.cache == nil {
		return
	}
	s.cache.Set(ctx, outlook)
}

// assemble nunca falla: cada paso de contenido tiene su fallback.
func (s *OutlookService) assemble(data UserData, date string, day time.Time) domain.DailyOutlook {
	userID := data.Profile.ID

	weights := DefaultWeights
	s.guard("weights", userID, func() {
		weights = s.weights.ComputeWeights(data.Profile.RelationshipStatus, data.Activity)
	})

	insight := Insight{Text: FallbackInsight}
	s.guard("insight", userID, func() {
		insight = s.selector.SelectPrimaryInsight(data, weights)
	})
	if strings.TrimSpace(insight.Text) == "" {
		insight = Insight{Text: FallbackInsight}
	}
	if insight.TemplateID == "" {
		s.metrics.IncFallback("insight")
	}

	actions := []domain.QuickAction{}
	s.guard("quick_actions", userID, func() {
		actions = s.selector.GenerateQuickActions(data, data.Profile.Tier, weights)
	})
	if actions == nil {
		actions = []domain.QuickAction{}
	}

	encouragement := encouragementSteps[0].message
	s.guard("encouragement", userID, func() {
		encouragement = s.selector.CreateEncouragementMessage(data, data.Activity.StreakCount)
	})

	surprise := surpriseElements[0]
	s.guard("surprise", userID, func() {
		surprise = s.selector.GetSurpriseElement(userID, MondayIndex(day.Weekday()))
	})

	teaser := FallbackTeaser
	s.guard("teaser", userID, func() {
		teaser = s.selector.BuildTomorrowTeaser(data)
	})
	if strings.TrimSpace(teaser) == "" {
		teaser = FallbackTeaser
	}
	if teaser == FallbackTeaser {
		s.metrics.IncFallback("teaser")
	}

	return domain.DailyOutlook{
		ID:                   uuid.NewString(),
		UserID:               userID,
		Date:                 date,
		Tier:                 data.Profile.Tier,
		BalanceScore:         BalanceScore(weights, data.Activity),
		Weights:              weights,
		PrimaryInsight:       insight.Text,
		InsightTemplateID:    insight.TemplateID,
		QuickActions:         actions,
		EncouragementMessage: encouragement,
		SurpriseElement:      surprise,
		TomorrowTeaser:       teaser,
		CulturalRelevance:    insight.CulturalRelevance,
		CitySpecific:         insight.CitySpecific,
		GeneratedAt:          s.now().UTC().Truncate(time.Microsecond),
	}
}

// guard ejecuta un paso de contenido; si hace panic se registra y se conserva el fallback.
func (s *OutlookService) guard(component, userID string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("content step failed, using fallback",
				zap.String("component", component),
				zap.String("user_id", userID),
				zap.Any("panic", r),
			)
			s.metrics.IncFallback(component)
		}
	}()
	fn()
}

// BalanceScore es la suma ponderada de los scores por categoria, redondeada y acotada a 0-100.
func BalanceScore(w domain.DynamicWeights, a domain.ActivitySnapshot) int {
	var total float64
	for _, c := range domain.Categories {
		total += w.Get(c) * float64(a.CategoryScore(c))
	}
	score := int(math.Round(total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// GetHistory lista los outlooks mas recientes del usuario, del mas nuevo al mas viejo.
func (s *OutlookService) GetHistory(ctx context.Context, userID string, limit int) ([]domain.DailyOutlook, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserNotFound
	}
	if _, err := s.users.GetProfile(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	outlooks, err := s.outlooks.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list outlooks: %w", err)
	}
	if outlooks == nil {
		outlooks = []domain.DailyOutlook{}
	}
	return outlooks, nil
}
