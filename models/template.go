// Package models defines data structures shared across the application.
// File: models/template.go
package models

import (
	"fmt"
	"time"
)

// ----------------------- template kinds -----------------------

// TemplateType classifies a form template.
type TemplateType string

const (
	TemplateRegistration     TemplateType = "registration"
	TemplateSurvey           TemplateType = "survey"
	TemplateProfileExtension TemplateType = "profile_extension"
)

// SurveyTrigger says when a survey-kind template is presented.
type SurveyTrigger string

const (
	TriggerCourseStart SurveyTrigger = "course_start"
	TriggerCourseEnd   SurveyTrigger = "course_end"
)

// ----------------------- field types -----------------------

// FieldType is the input type of a single form field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea"
)

// IsChoice reports whether the field type draws its value from Options.
func (ft FieldType) IsChoice() bool {
	return ft == FieldSelect || ft == FieldRadio || ft == FieldCheckbox
}

// FormField is one field in a template's fields_schema. Name is unique
// within its template; Options is only set for choice types.
type FormField struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Label       string    `json:"label"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// ----------------------- field values -----------------------

// FieldValue is a submitted answer tagged with the field type it was
// collected for, so rendering and validation can switch exhaustively
// instead of poking at an untyped map.
type FieldValue struct {
	Type    FieldType
	Text    string   // text, textarea, number (numeric string, passed through), date (ISO date)
	Choice  string   // select, radio
	Choices []string // checkbox
}

// Raw returns the wire representation of the value: a string for single
// valued fields, a []string for checkbox fields.
func (v FieldValue) Raw() any {
	if v.Type == FieldCheckbox {
		return v.Choices
	}
	switch v.Type {
	case FieldSelect, FieldRadio:
		return v.Choice
	default:
		return v.Text
	}
}

// IsEmpty reports whether the value counts as unanswered for the
// purposes of the required flag.
func (v FieldValue) IsEmpty() bool {
	switch v.Type {
	case FieldCheckbox:
		return len(v.Choices) == 0
	case FieldSelect, FieldRadio:
		return v.Choice == ""
	default:
		return v.Text == ""
	}
}

// ParseFieldValue coerces a decoded JSON answer into a FieldValue for
// the given field. Choice values must come from the field's options;
// everything else is carried as-is (no range validation beyond required).
func ParseFieldValue(field FormField, raw any) (FieldValue, error) {
	switch field.Type {
	case FieldSelect, FieldRadio:
		s, ok := raw.(string)
		if !ok {
			return FieldValue{}, fmt.Errorf("field %q: expected a string value", field.Name)
		}
		if s != "" && !containsOption(field.Options, s) {
			return FieldValue{}, fmt.Errorf("field %q: %q is not an allowed option", field.Name, s)
		}
		return FieldValue{Type: field.Type, Choice: s}, nil

	case FieldCheckbox:
		items, ok := raw.([]any)
		if !ok {
			return FieldValue{}, fmt.Errorf("field %q: expected a list of selected options", field.Name)
		}
		selected := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return FieldValue{}, fmt.Errorf("field %q: expected string options", field.Name)
			}
			if !containsOption(field.Options, s) {
				return FieldValue{}, fmt.Errorf("field %q: %q is not an allowed option", field.Name, s)
			}
			selected = append(selected, s)
		}
		return FieldValue{Type: FieldCheckbox, Choices: selected}, nil

	case FieldText, FieldTextarea, FieldNumber, FieldDate:
		s, ok := raw.(string)
		if !ok {
			return FieldValue{}, fmt.Errorf("field %q: expected a string value", field.Name)
		}
		return FieldValue{Type: field.Type, Text: s}, nil

	default:
		return FieldValue{}, fmt.Errorf("field %q: unknown field type %q", field.Name, field.Type)
	}
}

func containsOption(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

// ----------------------- template model -----------------------

// RegistrationTemplate is a reusable form template. Despite the name it
// covers all three kinds (registration, survey, profile_extension);
// the backend grew the extra kinds onto the original registration table.
type RegistrationTemplate struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          TemplateType  `json:"type"`
	SurveyTrigger SurveyTrigger `json:"survey_trigger,omitempty"`
	FieldsSchema  []FormField   `json:"fields_schema"`
	IsPublic      bool          `json:"is_public"`
	CreatedBy     *int          `json:"created_by_admin_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
}
