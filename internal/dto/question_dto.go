package dto

import "github.com/arzan03/PaperBot/internal/models"

type CreateQuestionRequest struct {
	Type        string              `json:"type" validate:"required,objectid"`
	Unit        string              `json:"unit" validate:"required,objectid"`
	Question    models.QuestionBody `json:"question"`
	Answer      string              `json:"answer" validate:"required,notblank"`
	Details     string              `json:"queDetails"`
	Marks       *float64            `json:"marks" validate:"required"`
	IsFormatted *bool               `json:"isFormatted" validate:"required"`
}

func (r *CreateQuestionRequest) Check() []string {
	return r.Question.Problems()
}

type UpdateQuestionRequest struct {
	Type        *string              `json:"type" validate:"omitempty,objectid"`
	Unit        *string              `json:"unit" validate:"omitempty,objectid"`
	Question    *models.QuestionBody `json:"question"`
	Answer      *string              `json:"answer" validate:"omitempty,notblank"`
	Details     *string              `json:"queDetails"`
	Marks       *float64             `json:"marks"`
	IsFormatted *bool                `json:"isFormatted"`
	IsActive    *bool                `json:"isActive"`
	IsVerified  *bool                `json:"isVerified"`
}

func (r *UpdateQuestionRequest) Check() []string {
	if r.Question == nil {
		return nil
	}
	return r.Question.Problems()
}

// ToggleQuestionRequest sets the active flag explicitly; without it the flag flips.
type ToggleQuestionRequest struct {
	IsActive *bool `json:"isActive"`
}

type VerifyQuestionRequest struct {
	IsVerified *bool `json:"isVerified" validate:"required"`
}

type QuestionTypeRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"required,notblank,max=255"`
}

type UpdateQuestionTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,notblank,max=255"`
	IsActive    *bool   `json:"isActive"`
}
