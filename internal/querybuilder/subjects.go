package querybuilder

import (
	"strings"

	"github.com/arzan03/PaperBot/internal/constants"
	"go.mongodb.org/mongo-driver/bson"
)

var subjectSortFields = []string{"name", "board", "standard", "medium", "createdAt"}

// ForSubjects builds the subject listing query. Enum filters with values
// outside their enumeration are dropped, never reported.
func ForSubjects(params map[string]string) Query {
	match := bson.M{}

	if v := params["board"]; constants.IsBoard(v) {
		match["board"] = v
	}
	name := params["name"]
	if name == "" {
		name = params["subject"]
	}
	if constants.IsSubject(name) {
		match["name"] = name
	}
	if v := params["medium"]; constants.IsMedium(v) {
		match["medium"] = v
	}
	if v := params["standard"]; constants.IsStandard(v) {
		match["standard"] = v
	}
	if search := strings.TrimSpace(params["search"]); search != "" {
		match["$or"] = searchAny(search, "name", "model_name")
	}
	if v, ok := params["isActive"]; ok && v != "" {
		match["isActive"] = parseBool(v)
	}

	page, limit := Pagination(params)
	return Query{
		Match: match,
		Sort:  sortSpec(params["sortBy"], false, subjectSortFields, bson.E{Key: "name", Value: 1}),
		Page:  page,
		Limit: limit,
	}
}
