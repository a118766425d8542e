package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Question struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Type        primitive.ObjectID `bson:"type" json:"type"`
	IsFormatted bool               `bson:"isFormatted" json:"isFormatted"`
	Question    QuestionBody       `bson:"question" json:"question"`
	Answer      string             `bson:"answer" json:"answer"`
	Details     string             `bson:"queDetails,omitempty" json:"queDetails,omitempty"`
	Marks       float64            `bson:"marks" json:"marks"`
	Unit        primitive.ObjectID `bson:"unit" json:"unit"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsVerified  bool               `bson:"isVerified" json:"isVerified"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BlockItem is one entry of a list block.
type BlockItem struct {
	Content string `bson:"content" json:"content"`
}

type BlockData struct {
	Text  string      `bson:"text,omitempty" json:"text,omitempty"`
	Level int         `bson:"level,omitempty" json:"level,omitempty"`
	Style string      `bson:"style,omitempty" json:"style,omitempty"`
	Items []BlockItem `bson:"items,omitempty" json:"items,omitempty"`
}

// Block is one rich-text block of a formatted question.
type Block struct {
	ID   string     `bson:"id,omitempty" json:"id,omitempty"`
	Type string     `bson:"type" json:"type"`
	Data *BlockData `bson:"data" json:"data"`
}

// QuestionBody is stored and transmitted either as a plain string
// or as an object holding a list of blocks.
type QuestionBody struct {
	Text   string
	Blocks []Block
	// Structured is set when the body arrived as an object, even an empty one.
	Structured bool
}

type blockDocument struct {
	Blocks []Block `bson:"blocks" json:"blocks"`
}

var ErrQuestionBodyShape = errors.New("question must be either a string or an object")

// PlainText returns the body as text, joining block text for structured bodies.
func (q QuestionBody) PlainText() string {
	if !q.Structured {
		return q.Text
	}
	var b bytes.Buffer
	for _, block := range q.Blocks {
		if block.Data == nil {
			continue
		}
		if block.Data.Text != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(block.Data.Text)
		}
		for _, item := range block.Data.Items {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(item.Content)
		}
	}
	return b.String()
}

func (q QuestionBody) MarshalJSON() ([]byte, error) {
	if q.Structured {
		return json.Marshal(blockDocument{Blocks: q.nonNilBlocks()})
	}
	return json.Marshal(q.Text)
}

func (q *QuestionBody) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*q = QuestionBody{}
		return nil
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*q = QuestionBody{Text: text}
		return nil
	case trimmed[0] == '{':
		var doc blockDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return err
		}
		*q = QuestionBody{Blocks: doc.Blocks, Structured: true}
		return nil
	default:
		return ErrQuestionBodyShape
	}
}

func (q QuestionBody) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if q.Structured {
		return bson.MarshalValue(blockDocument{Blocks: q.nonNilBlocks()})
	}
	return bson.MarshalValue(q.Text)
}

func (q *QuestionBody) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*q = QuestionBody{}
		return nil
	case bson.TypeString:
		*q = QuestionBody{Text: raw.StringValue()}
		return nil
	case bson.TypeEmbeddedDocument:
		var doc blockDocument
		if err := raw.Unmarshal(&doc); err != nil {
			return err
		}
		*q = QuestionBody{Blocks: doc.Blocks, Structured: true}
		return nil
	default:
		return ErrQuestionBodyShape
	}
}

func (q QuestionBody) nonNilBlocks() []Block {
	if q.Blocks == nil {
		return []Block{}
	}
	return q.Blocks
}

// Problems lists every way the body breaks the authoring rules: plain text must
// not be blank, and a structured body needs at least one block whose data
// carries text or a non-blank list item.
func (q QuestionBody) Problems() []string {
	if !q.Structured {
		if strings.TrimSpace(q.Text) == "" {
			return []string{"Question must not be empty when it is a string"}
		}
		return nil
	}
	if len(q.Blocks) == 0 {
		return []string{"Question object must have at least one block"}
	}
	var problems []string
	for i, block := range q.Blocks {
		n := i + 1
		if strings.TrimSpace(block.Type) == "" {
			problems = append(problems, fmt.Sprintf("Block %d is missing a valid 'type'", n))
		}
		if block.Data == nil {
			problems = append(problems, fmt.Sprintf("Block %d is missing valid 'data'", n))
			continue
		}
		if !block.Data.hasContent() {
			problems = append(problems, fmt.Sprintf("Block %d must have either 'text' or 'content'", n))
		}
	}
	return problems
}

func (d *BlockData) hasContent() bool {
	if strings.TrimSpace(d.Text) != "" {
		return true
	}
	for _, item := range d.Items {
		if strings.TrimSpace(item.Content) != "" {
			return true
		}
	}
	return false
}
