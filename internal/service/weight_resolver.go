package service

import (
	"sort"

	"go.uber.org/zap"

	"mingus-outlook/internal/domain"
)

const (
	// weightNudge es el ajuste fijo aplicado a una categoria con señal baja.
	weightNudge = 0.05
	// lowSignalThreshold: scores por debajo de este valor (y > 0) se consideran señal baja.
	lowSignalThreshold = 40
	// lowMoodThreshold en escala 1-5.
	lowMoodThreshold = 2
)

// DefaultWeights se usa para relationship_status desconocidos.
var DefaultWeights = domain.DynamicWeights{
	Financial:    0.25,
	Wellness:     0.25,
	Relationship: 0.25,
	Career:       0.25,
}

var baseWeights = map[domain.RelationshipStatus]domain.DynamicWeights{
	domain.RelationshipSingleCareerFocused: {Financial: 0.40, Wellness: 0.25, Relationship: 0.10, Career: 0.25},
	domain.RelationshipSingleLooking:       {Financial: 0.35, Wellness: 0.25, Relationship: 0.20, Career: 0.20},
	domain.RelationshipDating:              {Financial: 0.30, Wellness: 0.25, Relationship: 0.25, Career: 0.20},
	domain.RelationshipEarlyRelationship:   {Financial: 0.30, Wellness: 0.20, Relationship: 0.30, Career: 0.20},
	domain.RelationshipCommitted:           {Financial: 0.35, Wellness: 0.20, Relationship: 0.25, Career: 0.20},
	domain.RelationshipEngaged:             {Financial: 0.40, Wellness: 0.15, Relationship: 0.30, Career: 0.15},
	domain.RelationshipMarried:             {Financial: 0.35, Wellness: 0.20, Relationship: 0.30, Career: 0.15},
	domain.RelationshipComplicated:         {Financial: 0.30, Wellness: 0.35, Relationship: 0.20, Career: 0.15},
}

// WeightResolver calcula la importancia relativa de cada categoria para un usuario.
type WeightResolver struct {
	logger *zap.Logger
}

func NewWeightResolver(logger *zap.Logger) *WeightResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeightResolver{logger: logger}
}

// BaseWeights devuelve la tabla base del status; ok=false cuando se usa DefaultWeights.
func BaseWeights(status domain.RelationshipStatus) (domain.DynamicWeights, bool) {
	w, ok := baseWeights[status]
	if !ok {
		return DefaultWeights, false
	}
	return w, true
}

// ComputeWeights es una funcion pura de sus entradas: tabla base, ajustes acotados por
// actividad y renormalizacion a 1.0.
func (r *WeightResolver) ComputeWeights(status domain.RelationshipStatus, activity domain.ActivitySnapshot) domain.DynamicWeights {
	w, ok := BaseWeights(status)
	if !ok && r != nil && r.logger != nil {
		r.logger.Warn("unknown relationship status, using default weights",
			zap.String("relationship_status", string(status)),
			zap.String("user_id", activity.UserID),
		)
	}
	w = normalizeWeights(w)

	if lowSignal(activity.WellnessScore) || (activity.MoodScore > 0 && activity.MoodScore <= lowMoodThreshold) {
		w = nudgeWeight(w, domain.CategoryWellness, weightNudge)
	}
	if lowSignal(activity.FinancialScore) {
		w = nudgeWeight(w, domain.CategoryFinancial, weightNudge)
	}
	if lowSignal(activity.RelationshipScore) && status != domain.RelationshipSingleCareerFocused {
		w = nudgeWeight(w, domain.CategoryRelationship, weightNudge)
	}
	if lowSignal(activity.CareerScore) {
		w = nudgeWeight(w, domain.CategoryCareer, weightNudge)
	}

	return normalizeWeights(w)
}

// Un score 0 significa "sin datos", no señal baja.
func lowSignal(score int) bool {
	return score > 0 && score < lowSignalThreshold
}

// nudgeWeight suma delta a la categoria c tomandolo proporcionalmente de las otras tres.
func nudgeWeight(w domain.DynamicWeights, c domain.Category, delta float64) domain.DynamicWeights {
	others := w.Sum() - w.Get(c)
	if others <= 0 {
		return w
	}
	if delta > others {
		delta = others
	}
	for _, o := range domain.Categories {
		if o == c {
			continue
		}
		w = w.With(o, w.Get(o)-delta*w.Get(o)/others)
	}
	return w.With(c, w.Get(c)+delta)
}

// normalizeWeights deja pesos >= 0 que suman exactamente 1.0 (career absorbe el residuo).
func normalizeWeights(w domain.DynamicWeights) domain.DynamicWeights {
	for _, c := range domain.Categories {
		if w.Get(c) < 0 {
			w = w.With(c, 0)
		}
	}
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights
	}
	out := domain.DynamicWeights{
		Financial:    w.Financial / sum,
		Wellness:     w.Wellness / sum,
		Relationship: w.Relationship / sum,
	}
	out.Career = 1 - out.Financial - out.Wellness - out.Relationship
	if out.Career < 0 {
		out.Career = 0
	}
	return out
}

// rankedCategories ordena categorias por peso descendente; empates por orden canonico.
func rankedCategories(w domain.DynamicWeights) []domain.Category {
	out := make([]domain.Category, len(domain.Categories))
	copy(out, domain.Categories)
	sort.SliceStable(out, func(i, j int) bool {
		return w.Get(out[i]) > w.Get(out[j])
	})
	return out
}
