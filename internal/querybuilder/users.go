package querybuilder

import (
	"strings"

	"github.com/arzan03/PaperBot/internal/constants"
	"go.mongodb.org/mongo-driver/bson"
)

var userSortFields = []string{"username", "email", "role", "createdAt"}

// ForUsers builds the admin user listing query.
func ForUsers(params map[string]string) Query {
	match := bson.M{}
	if v := params["role"]; constants.IsRole(v) {
		match["role"] = v
	}
	if search := strings.TrimSpace(params["search"]); search != "" {
		match["$or"] = searchAny(search, "username", "email")
	}
	if v := params["isActive"]; v != "" {
		match["isActive"] = parseBool(v)
	}

	page, limit := Pagination(params)
	return Query{
		Match: match,
		Sort:  sortSpec(params["sortBy"], false, userSortFields, bson.E{Key: "createdAt", Value: -1}),
		Page:  page,
		Limit: limit,
	}
}

// ForQuestionTypes lists active entries of the shared question-type catalogue.
func ForQuestionTypes(params map[string]string) Query {
	match := bson.M{"isActive": true}
	if search := strings.TrimSpace(params["search"]); search != "" {
		match["name"] = containsPattern(search)
	}

	page, limit := Pagination(params)
	return Query{
		Match: match,
		Sort:  sortSpec(params["sortBy"], false, []string{"name", "createdAt"}, bson.E{Key: "name", Value: 1}),
		Page:  page,
		Limit: limit,
	}
}
