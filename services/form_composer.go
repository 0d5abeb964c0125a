// Package services: services/form_composer.go
package services

import (
	"fmt"

	"go-checkin-gateway/models"
)

// FormAction selects which form the composer assembles.
type FormAction string

const (
	ActionCheckin  FormAction = "checkin"
	ActionCheckout FormAction = "checkout"
)

// ActionFor maps a resolved phase to the form the attendee acts with
// next: attendees with an open check-in record get the checkout form,
// everyone else the check-in form.
func ActionFor(phase Phase) FormAction {
	switch phase {
	case PhaseCheckoutAllowed, PhaseAwaitingCheckoutWindow:
		return ActionCheckout
	default:
		return ActionCheckin
	}
}

// ComposeFields assembles the ordered field list to present for the
// given action from the event's attached templates.
//
// checkout: survey templates with trigger course_end, in template order.
// checkin:  registration fields, then course_start survey fields, then
// profile_extension fields the user has not already supplied (all of
// them when no user is known).
//
// A nil return means "no extra form": render the action without inputs.
// Field names colliding across templates are NOT de-duplicated; the
// submitted bag is keyed by name, so the last collected value wins. Known
// limitation carried over from the template model.
func ComposeFields(event *models.Event, user *models.User, action FormAction) []models.FormField {
	var fields []models.FormField

	if action == ActionCheckout {
		for _, tpl := range event.Templates {
			if tpl.Type == models.TemplateSurvey && tpl.SurveyTrigger == models.TriggerCourseEnd {
				fields = append(fields, tpl.FieldsSchema...)
			}
		}
		return fields
	}

	for _, tpl := range event.Templates {
		if tpl.Type == models.TemplateRegistration {
			fields = append(fields, tpl.FieldsSchema...)
		}
	}
	for _, tpl := range event.Templates {
		if tpl.Type == models.TemplateSurvey && tpl.SurveyTrigger == models.TriggerCourseStart {
			fields = append(fields, tpl.FieldsSchema...)
		}
	}
	for _, tpl := range event.Templates {
		if tpl.Type != models.TemplateProfileExtension {
			continue
		}
		if user == nil {
			fields = append(fields, tpl.FieldsSchema...)
			continue
		}
		for _, field := range tpl.FieldsSchema {
			if !user.HasProfileValue(field.Name) {
				fields = append(fields, field)
			}
		}
	}
	return fields
}

// profileFieldNames collects every field name declared by a
// profile_extension template attached to the event.
func profileFieldNames(event *models.Event) map[string]bool {
	names := make(map[string]bool)
	for _, tpl := range event.Templates {
		if tpl.Type != models.TemplateProfileExtension {
			continue
		}
		for _, field := range tpl.FieldsSchema {
			names[field.Name] = true
		}
	}
	return names
}

// SplitAnswers divides collected answers into the dynamic-data bucket
// and the profile-data bucket. A key belongs to profile data iff a
// profile_extension template attached to the event declares it; the
// profile bucket comes back nil (sent absent, not `{}`) when empty, so
// stored profile values are never overwritten with nothing.
func SplitAnswers(event *models.Event, answers map[string]any) (dynamic, profile map[string]any) {
	if len(answers) == 0 {
		return nil, nil
	}

	profileNames := profileFieldNames(event)
	dynamic = make(map[string]any, len(answers))
	for key, value := range answers {
		if profileNames[key] {
			if profile == nil {
				profile = make(map[string]any)
			}
			profile[key] = value
		}
		// profile keys stay in dynamic data too: the checkin record keeps
		// the full answer bag while the user profile absorbs its subset
		dynamic[key] = value
	}
	return dynamic, profile
}

// ValidateAnswers checks the collected answers against the composed
// field list: required fields must be present and non-empty, choice
// values must come from the declared options. Unknown extra keys are
// passed through untouched. Returns the typed values keyed by name.
func ValidateAnswers(fields []models.FormField, answers map[string]any) (map[string]models.FieldValue, error) {
	values := make(map[string]models.FieldValue, len(fields))
	for _, field := range fields {
		raw, ok := answers[field.Name]
		if !ok || raw == nil {
			if field.Required {
				return nil, fmt.Errorf("缺少必填欄位：%s", field.Label)
			}
			continue
		}
		value, err := models.ParseFieldValue(field, raw)
		if err != nil {
			return nil, err
		}
		if field.Required && value.IsEmpty() {
			return nil, fmt.Errorf("缺少必填欄位：%s", field.Label)
		}
		values[field.Name] = value
	}
	return values, nil
}
