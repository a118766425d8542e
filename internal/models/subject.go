package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Unit struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Number   int                `bson:"number" json:"number"`
	Name     string             `bson:"name" json:"name"`
	IsActive bool               `bson:"isActive" json:"isActive"`
}

type QuestionType struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
}

type Outline struct {
	Marks     float64            `bson:"marks" json:"marks"`
	OutlineID primitive.ObjectID `bson:"outlineId" json:"outlineId"`
}

type Subject struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Board              string               `bson:"board" json:"board"`
	Standard           string               `bson:"standard" json:"standard"`
	Name               string               `bson:"name" json:"name"`
	Code               string               `bson:"code" json:"code"`
	Medium             string               `bson:"medium" json:"medium"`
	Price              float64              `bson:"price" json:"price"`
	Schools            []primitive.ObjectID `bson:"schools" json:"schools"`
	Units              []Unit               `bson:"units" json:"units"`
	QuestionTypes      []QuestionType       `bson:"questionTypes" json:"questionTypes"`
	Outlines           []Outline            `bson:"outlines" json:"outlines"`
	ModelName          string               `bson:"model_name" json:"model_name"`
	IsSequenceRequired bool                 `bson:"isSequenceRequired" json:"isSequenceRequired"`
	CreatedBy          primitive.ObjectID   `bson:"created_by" json:"created_by"`
	IsActive           bool                 `bson:"isActive" json:"isActive"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// SubjectDetail is a subject with its school and creator references resolved.
type SubjectDetail struct {
	*Subject
	Schools   []UserRef `json:"schools"`
	CreatedBy *UserRef  `json:"created_by"`
}

// Unit returns the embedded unit with the given id.
func (s *Subject) Unit(id primitive.ObjectID) (Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// QuestionType returns the embedded question type with the given id.
func (s *Subject) QuestionType(id primitive.ObjectID) (QuestionType, bool) {
	for _, qt := range s.QuestionTypes {
		if qt.ID == id {
			return qt, true
		}
	}
	return QuestionType{}, false
}

// QuestionTypeIDs lists the ids questions of this subject may reference as their type.
func (s *Subject) QuestionTypeIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(s.QuestionTypes))
	for _, qt := range s.QuestionTypes {
		ids = append(ids, qt.ID)
	}
	return ids
}

// GenerateModelName derives the name of the collection that holds a subject's questions.
// Parts are trimmed and the result lower-cased, so the code compares case-insensitively.
func GenerateModelName(board, standard, name, code, medium string) string {
	parts := []string{board, standard, name, code, medium, "questions"}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.ToLower(strings.Join(parts, "_"))
}
