// Package services: services/eligibility.go
package services

import (
	"strings"
	"time"

	"go-checkin-gateway/logger"
	"go-checkin-gateway/models"
)

// ----------------------- lifecycle phases -----------------------

// Phase is the attendee's place in the check-in/check-out lifecycle.
type Phase string

const (
	PhaseNotCheckedIn           Phase = "NOT_CHECKED_IN"
	PhaseCheckInAllowed         Phase = "CHECK_IN_ALLOWED"
	PhaseCheckInBlocked         Phase = "CHECK_IN_BLOCKED"
	PhaseAwaitingCheckoutWindow Phase = "AWAITING_CHECKOUT_WINDOW"
	PhaseCheckoutAllowed        Phase = "CHECKOUT_ALLOWED"
	PhaseFullyCheckedOut        Phase = "FULLY_CHECKED_OUT"
)

// Eligibility is the resolved state driving the action button.
type Eligibility struct {
	Phase         Phase           `json:"phase"`
	ActionEnabled bool            `json:"action_enabled"`
	Advisory      string          `json:"advisory,omitempty"`
	Checkin       *models.Checkin `json:"checkin,omitempty"`
}

// ----------------------- advisory translation -----------------------

// Advisory is the discrete meaning extracted from the backend's
// free-text validation message.
type Advisory int

const (
	AdvisoryUnknown Advisory = iota
	AdvisoryCompleted
	AdvisoryCheckoutReady
	AdvisoryCheckoutWaiting
	AdvisoryCheckinReady
)

// advisoryFailed is what the gateway reports when the validate call
// itself failed and no backend message is available.
const advisoryFailed = "簽到資格驗證失敗，請稍後重試"

// TranslateAdvisory maps the backend's advisory message to a discrete
// Advisory by substring matching. This is the only place that knows the
// message vocabulary; everything downstream works off the enum.
//
// The vocabulary is the backend's, verbatim, and must track it exactly:
//
//	"已完成簽到退"  both check-in and check-out are done
//	"可以進行簽退"  check-out is currently permitted
//	"還需等待"      check-out pending a time condition
//	"可以進行簽到"  check-in is permitted
//
// Order matters: the strings are not guaranteed mutually exclusive, so
// the more terminal states are tested first.
func TranslateAdvisory(message string) Advisory {
	switch {
	case strings.Contains(message, "已完成簽到退") || strings.Contains(message, "已完成簽到和簽退"):
		return AdvisoryCompleted
	case strings.Contains(message, "可以進行簽退"):
		return AdvisoryCheckoutReady
	case strings.Contains(message, "還需等待"):
		return AdvisoryCheckoutWaiting
	case strings.Contains(message, "可以進行簽到"):
		return AdvisoryCheckinReady
	default:
		return AdvisoryUnknown
	}
}

// ----------------------- resolution -----------------------

// CheckInEligible is the locally re-derived pre-checkin rule: the
// backend said valid, the event window contains now, and the attendee
// is inside the geofence (or there is none). Post-checkin rules are NOT
// re-derived here; those stay server-authoritative because only the
// backend knows its checkout timing business rules.
func CheckInEligible(event *models.Event, valid bool, pos *Position, now time.Time) bool {
	return valid && event.IsActive(now) && WithinGeofence(event, pos)
}

// Resolve classifies the attendee from a validate response. A nil
// validation means the network call failed; the result degrades to a
// blocked action with a generic advisory, and retry is left to the user.
func Resolve(event *models.Event, validation *models.ValidateResponse, pos *Position, now time.Time) Eligibility {
	if validation == nil {
		return Eligibility{
			Phase:    PhaseCheckInBlocked,
			Advisory: advisoryFailed,
		}
	}

	result := Eligibility{
		Advisory: validation.Message,
		Checkin:  validation.Checkin,
	}

	switch TranslateAdvisory(validation.Message) {
	case AdvisoryCompleted:
		result.Phase = PhaseFullyCheckedOut

	case AdvisoryCheckoutReady:
		result.Phase = PhaseCheckoutAllowed
		result.ActionEnabled = true

	case AdvisoryCheckoutWaiting:
		result.Phase = PhaseAwaitingCheckoutWindow

	case AdvisoryCheckinReady:
		if CheckInEligible(event, validation.Valid, pos, now) {
			result.Phase = PhaseCheckInAllowed
			result.ActionEnabled = true
		} else {
			result.Phase = PhaseCheckInBlocked
		}

	default:
		// Vocabulary gap. Deliberately not "fixed" locally: block the
		// action and surface the raw message.
		logger.Warn.Printf("Resolve: unrecognised advisory %q for event %s", validation.Message, event.ID)
		result.Phase = PhaseCheckInBlocked
	}

	return result
}

// Unauthenticated is the resolution for a visitor with no session user:
// nothing has happened yet and the action stays disabled behind login.
func Unauthenticated() Eligibility {
	return Eligibility{Phase: PhaseNotCheckedIn}
}

// ----------------------- submission outcome -----------------------

// CheckoutOpensAt returns when the checkout window opens for an
// existing check-in, and whether the event has a timed window at all.
func CheckoutOpensAt(event *models.Event, checkin *models.Checkin) (time.Time, bool) {
	if !event.RequireCheckout {
		return time.Time{}, false
	}
	switch event.CheckoutMode {
	case models.CheckoutAfterDuration:
		if event.CheckoutDuration == nil {
			return time.Time{}, false
		}
		return checkin.CheckinTime.Add(time.Duration(*event.CheckoutDuration) * time.Minute), true
	case models.CheckoutAtEndTime:
		return event.EndTime, true
	default:
		return time.Time{}, false
	}
}

// Reclassify advances the state from a successful submission response
// without waiting for another validate round trip. A checkout_time on
// the returned record means the attendee is done; otherwise the next
// phase follows from the event's checkout requirement.
func Reclassify(event *models.Event, checkin *models.Checkin, now time.Time) Eligibility {
	result := Eligibility{Checkin: checkin}

	if checkin == nil {
		result.Phase = PhaseCheckInBlocked
		result.Advisory = advisoryFailed
		return result
	}

	if checkin.CheckedOut() {
		result.Phase = PhaseFullyCheckedOut
		return result
	}

	if !event.RequireCheckout {
		// no checkout step: attendance is complete at check-in
		result.Phase = PhaseFullyCheckedOut
		return result
	}

	if opensAt, ok := CheckoutOpensAt(event, checkin); ok && now.Before(opensAt) {
		result.Phase = PhaseAwaitingCheckoutWindow
		return result
	}

	result.Phase = PhaseCheckoutAllowed
	result.ActionEnabled = true
	return result
}
