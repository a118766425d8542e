package querybuilder

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/arzan03/PaperBot/internal/constants"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var questionSortFields = []string{"type", "unit", "created_by", "marks", "createdAt"}

// VisibleTo returns the filter every question read starts from.
// Non-admin callers only ever see active, verified questions.
func VisibleTo(role string) bson.M {
	if constants.IsAdmin(role) {
		return bson.M{}
	}
	return bson.M{"isActive": true, "isVerified": true}
}

// ForQuestions builds the listing query for one subject's question collection.
// allowedTypes are the subject's question-type ids; a type filter outside them is dropped.
func ForQuestions(params map[string]string, role string, allowedTypes []primitive.ObjectID) Query {
	match := VisibleTo(role)
	admin := constants.IsAdmin(role)

	if raw := params["type"]; raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		switch {
		case err != nil:
			slog.Warn("dropping invalid question type filter", "type", raw, "error", err)
		case !slices.Contains(allowedTypes, id):
			slog.Warn("dropping unknown question type filter", "type", raw)
		default:
			match["type"] = id
		}
	}
	if raw := params["unit"]; raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err != nil {
			slog.Warn("dropping invalid unit filter", "unit", raw, "error", err)
		} else {
			match["unit"] = id
		}
	}
	if search := strings.TrimSpace(params["search"]); search != "" {
		match["$or"] = searchAny(search, "question", "question.blocks.data.text", "answer", "queDetails")
	}
	if raw := params["createdBy"]; raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err != nil {
			slog.Warn("dropping invalid createdBy filter", "createdBy", raw, "error", err)
		} else {
			match["created_by"] = id
		}
	}
	if raw := params["marks"]; raw != "" {
		if marks, err := strconv.ParseFloat(raw, 64); err == nil {
			match["marks"] = marks
		}
	}
	// The baseline above must not be widened by non-admin callers.
	if admin {
		if v := params["isActive"]; v != "" {
			match["isActive"] = parseBool(v)
		}
		if v := params["isVerified"]; v != "" {
			match["isVerified"] = parseBool(v)
		}
	}

	page, limit := Pagination(params)
	return Query{
		Match: match,
		Sort:  sortSpec(params["sortBy"], params["sortOrder"] == "desc", questionSortFields, bson.E{Key: "createdAt", Value: -1}),
		Page:  page,
		Limit: limit,
	}
}
