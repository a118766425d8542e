package dto

import "github.com/arzan03/PaperBot/internal/models"

type CreateSubjectRequest struct {
	Board              string   `json:"board" validate:"required,board"`
	Standard           string   `json:"standard" validate:"required,standard"`
	Name               string   `json:"name" validate:"required,subject"`
	Medium             string   `json:"medium" validate:"required,medium"`
	Code               string   `json:"code" validate:"required,notblank,max=20"`
	Price              *float64 `json:"price" validate:"omitempty,gte=0"`
	IsSequenceRequired *bool    `json:"isSequenceRequired"`
}

type OutlineRequest struct {
	Marks     float64 `json:"marks" validate:"gte=0"`
	OutlineID string  `json:"outlineId" validate:"required,objectid"`
}

// UpdateSubjectRequest carries only the fields to change. The identity
// fields are accepted so that an unchanged value can round-trip.
type UpdateSubjectRequest struct {
	Board              *string           `json:"board" validate:"omitempty,board"`
	Standard           *string           `json:"standard" validate:"omitempty,standard"`
	Name               *string           `json:"name" validate:"omitempty,subject"`
	Medium             *string           `json:"medium" validate:"omitempty,medium"`
	Code               *string           `json:"code" validate:"omitempty,notblank,max=20"`
	Price              *float64          `json:"price" validate:"omitempty,gte=0"`
	IsSequenceRequired *bool             `json:"isSequenceRequired"`
	Outlines           *[]OutlineRequest `json:"outlines" validate:"omitempty,dive"`
}

type SchoolRequest struct {
	SchoolID string `json:"schoolId" validate:"required,objectid"`
}

type UnitRequest struct {
	ID       string `json:"_id" validate:"omitempty,objectid"`
	Number   int    `json:"number" validate:"required,min=1"`
	Name     string `json:"name" validate:"required,notblank"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

type UnitsRequest struct {
	Units []UnitRequest `json:"units" validate:"required,min=1,dive"`
}

type QuestionTypeItem struct {
	ID          string `json:"_id" validate:"omitempty,objectid"`
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
}

type QuestionTypesRequest struct {
	QuestionTypes []QuestionTypeItem `json:"questionTypes" validate:"required,min=1,dive"`
}

// Filters is the catalogue of values the listing filters accept.
type Filters struct {
	Boards        []string                    `json:"boards"`
	Subjects      []string                    `json:"subjects"`
	Mediums       []string                    `json:"mediums"`
	Standards     []string                    `json:"standards"`
	QuestionTypes []models.GlobalQuestionType `json:"questionTypes"`
}
