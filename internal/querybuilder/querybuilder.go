// Package querybuilder turns listing query strings into Mongo filters,
// sort specifications and pagination windows.
package querybuilder

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/arzan03/PaperBot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit inside int64 and page inside a 32-bit int.
	MaxPage = math.MaxInt32
)

// Query is the output of a builder, ready for a paginated aggregation.
type Query struct {
	Match bson.M
	Sort  bson.D
	Page  int
	Limit int
}

func (q Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// Pipeline matches, then splits into the requested window and the total count.
func (q Query) Pipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: q.Match}},
		{{Key: "$facet", Value: bson.D{
			{Key: "data", Value: bson.A{
				bson.D{{Key: "$sort", Value: q.Sort}},
				bson.D{{Key: "$skip", Value: q.Skip()}},
				bson.D{{Key: "$limit", Value: int64(q.Limit)}},
			}},
			{Key: "total", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
	}
}

// Paginate wraps docs fetched for this query into a page envelope.
func Paginate[T any](q Query, docs []T, total int64) *models.Page[T] {
	return models.NewPage(docs, total, q.Page, q.Limit)
}

// Pagination reads page and limit, falling back to defaults for
// missing, non-numeric or non-positive values. Oversized values are capped.
func Pagination(params map[string]string) (page, limit int) {
	page = positiveInt(params["page"], DefaultPage)
	if page > MaxPage {
		page = MaxPage
	}
	limit = positiveInt(params["limit"], DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// parseBool follows the listing convention: only the literal "true" is true.
func parseBool(raw string) bool {
	return raw == "true"
}

// containsPattern is a case-insensitive partial match on literal user input.
func containsPattern(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}

func searchAny(search string, fields ...string) bson.A {
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: containsPattern(search)})
	}
	return or
}

// sortSpec honours sortBy ("-field" for descending) when the field is allowed,
// otherwise the fallback applies. _id always breaks ties.
func sortSpec(sortBy string, descending bool, allowed []string, fallback bson.E) bson.D {
	field := strings.TrimSpace(sortBy)
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		descending = true
	}
	primary := fallback
	if slices.Contains(allowed, field) {
		dir := 1
		if descending {
			dir = -1
		}
		primary = bson.E{Key: field, Value: dir}
	}
	return bson.D{primary, {Key: "_id", Value: 1}}
}
