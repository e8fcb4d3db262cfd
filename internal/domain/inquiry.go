package domain

import (
	"fmt"
	"time"
)

// Inquiry is a customer request-for-quote captured by the contact form.
type Inquiry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null" json:"phone"`
	Message   *string   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

// HasMessage reports whether the submitter left a non-empty message.
func (i Inquiry) HasMessage() bool {
	return i.Message != nil && trim(*i.Message) != ""
}

// InquiryInput is the accepted shape for a contact form submission. Anything
// else the client sends, id and createdAt included, is dropped.
type InquiryInput struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone" validate:"required"`
	Message *string `json:"message,omitempty"`
}

func (in *InquiryInput) Normalize() {
	in.Name = trim(in.Name)
	in.Phone = trim(in.Phone)
}

// Inquiry builds the record to persist, stamped with createdAt.
func (in InquiryInput) Inquiry(createdAt time.Time) Inquiry {
	return Inquiry{
		Name:      in.Name,
		Phone:     in.Phone,
		Message:   in.Message,
		CreatedAt: createdAt,
	}
}

// DecodeInquiry picks the known fields out of a decoded JSON object and checks
// their types. Presence is left to ValidateInquiry.
func DecodeInquiry(raw map[string]interface{}) (InquiryInput, error) {
	var in InquiryInput
	name, err := optionalString(raw, "name")
	if err != nil {
		return in, err
	}
	phone, err := optionalString(raw, "phone")
	if err != nil {
		return in, err
	}
	message, err := optionalString(raw, "message")
	if err != nil {
		return in, err
	}
	if name != nil {
		in.Name = *name
	}
	if phone != nil {
		in.Phone = *phone
	}
	in.Message = message
	return in, nil
}

func optionalString(raw map[string]interface{}, field string) (*string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a string", field),
		}
	}
	return &s, nil
}
