package costing

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// minFuzzyRef is the shortest reference allowed to match by prefix/contains.
const minFuzzyRef = 4

// Source fetches all data an analysis needs, up to windowEnd, in one go.
type Source interface {
	Load(ctx context.Context, windowEnd time.Time) (*RawData, error)
}

type resolvedUsage struct {
	elaborationID string
	quantity      float64
}

// Unresolved counts references that point at nothing, found while building a
// snapshot. They cost zero and never abort an analysis.
type Unresolved struct {
	IngredientLinks int
	ComponentRefs   int
	UsageRefs       int
	FuzzyUsageRefs  int
	PricePoints     int
}

func (u Unresolved) Total() int {
	return u.IngredientLinks + u.ComponentRefs + u.UsageRefs + u.PricePoints
}

// Snapshot is the read-only bundle of entities and indexes serving one
// analysis window. It is never mutated after NewSnapshot returns, so it can be
// read from several goroutines.
type Snapshot struct {
	ID        string
	WindowEnd time.Time
	LoadedAt  time.Time

	data  *RawData
	index *PriceIndex

	ingredients   map[string]*Ingredient
	elaborations  map[string]*Elaboration
	recipes       map[string]*Recipe
	components    map[string][]Component
	recipeUsages  map[string][]resolvedUsage
	sortedElabIDs []string

	unresolved Unresolved
	log        *zap.Logger
}

// Load fetches raw data from src and builds a snapshot. Any failure, including
// the timeout, is reported as *DataLoadError and no snapshot is returned.
func Load(ctx context.Context, src Source, windowEnd time.Time, timeout time.Duration, log *zap.Logger) (*Snapshot, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	data, err := src.Load(ctx, windowEnd)
	if err != nil {
		var dle *DataLoadError
		if errors.As(err, &dle) {
			return nil, dle
		}
		return nil, &DataLoadError{Op: "load", Err: err}
	}
	if data == nil {
		return nil, &DataLoadError{Op: "load", Err: errors.New("source returned no data")}
	}
	return NewSnapshot(data, windowEnd, log), nil
}

func NewSnapshot(data *RawData, windowEnd time.Time, log *zap.Logger) *Snapshot {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Snapshot{
		ID:           uuid.NewString(),
		WindowEnd:    windowEnd,
		LoadedAt:     time.Now(),
		data:         data,
		index:        newPriceIndex(data.Items, data.Points),
		ingredients:  make(map[string]*Ingredient, len(data.Ingredients)),
		elaborations: make(map[string]*Elaboration, len(data.Elaborations)),
		recipes:      make(map[string]*Recipe, len(data.Recipes)),
		components:   make(map[string][]Component),
		recipeUsages: make(map[string][]resolvedUsage, len(data.Recipes)),
	}
	s.log = log.With(zap.String("snapshot", s.ID))
	s.unresolved.PricePoints = s.index.Dropped()

	for i := range data.Ingredients {
		ing := &data.Ingredients[i]
		s.ingredients[ing.ID] = ing
		if ing.PurchasedItemLink != "" {
			if _, ok := s.index.Item(ing.PurchasedItemLink); !ok {
				s.unresolved.IngredientLinks++
				s.log.Warn("ingredient links unknown purchased item",
					zap.String("ingredient", ing.ID), zap.String("link", ing.PurchasedItemLink))
			}
		}
	}
	for i := range data.Elaborations {
		e := &data.Elaborations[i]
		s.elaborations[e.ID] = e
		s.sortedElabIDs = append(s.sortedElabIDs, e.ID)
	}
	sort.Strings(s.sortedElabIDs)

	for _, c := range data.Components {
		if c.RefKind == "" {
			c.RefKind = KindIngredient
		}
		if !s.componentTargetExists(c) {
			s.unresolved.ComponentRefs++
			s.log.Warn("component references unknown entity",
				zap.String("elaboration", c.ParentElaborationID),
				zap.String("ref", c.Ref), zap.String("kind", string(c.RefKind)))
		}
		s.components[c.ParentElaborationID] = append(s.components[c.ParentElaborationID], c)
	}

	for i := range data.Recipes {
		r := &data.Recipes[i]
		s.recipes[r.ID] = r
		usages := make([]resolvedUsage, 0, len(r.Usages))
		for _, u := range r.Usages {
			id, ok := s.resolveElaboration(r.ID, u.ElaborationRef)
			if !ok {
				continue
			}
			usages = append(usages, resolvedUsage{elaborationID: id, quantity: u.Quantity})
		}
		s.recipeUsages[r.ID] = usages
	}

	if s.unresolved.PricePoints > 0 {
		s.log.Warn("price points reference unknown purchased items", zap.Int("count", s.unresolved.PricePoints))
	}
	s.log.Info("snapshot built",
		zap.Time("windowEnd", windowEnd),
		zap.Int("items", len(data.Items)),
		zap.Int("points", len(data.Points)),
		zap.Int("ingredients", len(data.Ingredients)),
		zap.Int("elaborations", len(data.Elaborations)),
		zap.Int("recipes", len(data.Recipes)))
	return s
}

func (s *Snapshot) componentTargetExists(c Component) bool {
	switch c.RefKind {
	case KindElaboration:
		_, ok := s.elaborations[c.Ref]
		return ok
	default:
		_, ok := s.ingredients[c.Ref]
		return ok
	}
}

// resolveElaboration maps a usage reference onto a known elaboration id:
// exact match first, then an id extending the reference, then an id the
// reference extends, then containment. Within each step the id closest in
// length to the reference wins.
func (s *Snapshot) resolveElaboration(recipeID, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		s.unresolved.UsageRefs++
		return "", false
	}
	if _, ok := s.elaborations[ref]; ok {
		return ref, true
	}
	if len(ref) >= minFuzzyRef {
		steps := []func(id string) bool{
			func(id string) bool { return strings.HasPrefix(id, ref) },
			func(id string) bool { return strings.HasPrefix(ref, id) },
			func(id string) bool { return strings.Contains(id, ref) || strings.Contains(ref, id) },
		}
		for _, match := range steps {
			if id, ok := s.closestElaboration(ref, match); ok {
				s.fuzzyMatched(recipeID, ref, id)
				return id, true
			}
		}
	}
	s.unresolved.UsageRefs++
	s.log.Warn("recipe usage references unknown elaboration",
		zap.String("recipe", recipeID), zap.String("ref", ref))
	return "", false
}

func (s *Snapshot) closestElaboration(ref string, match func(string) bool) (string, bool) {
	best, bestGap := "", -1
	for _, id := range s.sortedElabIDs {
		if !match(id) {
			continue
		}
		gap := len(id) - len(ref)
		if gap < 0 {
			gap = -gap
		}
		if bestGap < 0 || gap < bestGap {
			best, bestGap = id, gap
		}
	}
	return best, bestGap >= 0
}

func (s *Snapshot) fuzzyMatched(recipeID, ref, id string) {
	s.unresolved.FuzzyUsageRefs++
	s.log.Warn("recipe usage matched elaboration by partial id",
		zap.String("recipe", recipeID), zap.String("ref", ref), zap.String("elaboration", id))
}

func (s *Snapshot) Index() *PriceIndex { return s.index }

func (s *Snapshot) Unresolved() Unresolved { return s.unresolved }

// Covers reports whether the snapshot holds every price point needed to
// answer questions about dates up to end.
func (s *Snapshot) Covers(end time.Time) bool {
	return !dayOf(end).After(dayOf(s.WindowEnd))
}

// Name returns the display name of an entity, or "" when unknown.
func (s *Snapshot) Name(id string, kind Kind) string {
	switch kind {
	case KindPurchasedItem:
		if it, ok := s.index.Item(id); ok {
			return it.Name
		}
	case KindIngredient:
		if ing, ok := s.ingredients[id]; ok {
			return ing.Name
		}
	case KindElaboration:
		if e, ok := s.elaborations[id]; ok {
			return e.Name
		}
	case KindRecipe:
		if r, ok := s.recipes[id]; ok {
			return r.Name
		}
	}
	return ""
}

// Exists reports whether an entity of the given kind is loaded.
func (s *Snapshot) Exists(id string, kind Kind) bool {
	switch kind {
	case KindPurchasedItem:
		_, ok := s.index.Item(id)
		return ok
	case KindIngredient:
		_, ok := s.ingredients[id]
		return ok
	case KindElaboration:
		_, ok := s.elaborations[id]
		return ok
	case KindRecipe:
		_, ok := s.recipes[id]
		return ok
	}
	return false
}
