package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"booking-route-service/internal/domain"
)

// Booking categories recognized by the scorer. Any other value is a
// validation error, never a zero score.
const (
	CategoryProperty       = "property"
	CategoryPersonal       = "personal"
	CategoryCompanyEvent   = "company_event"
	CategoryMarketing      = "marketing_content"
	CategorySpecialProject = "special_project"
)

// ErrUnknownCategory rejects bookings whose category is not recognized.
var ErrUnknownCategory = errors.New("unknown booking category")

// personalRecencyPoints is a fixed stand-in for the "time since last
// personal shoot" factor. A real historical feed does not exist yet, so every
// personal booking receives the flat value.
const personalRecencyPoints = 10

// BookingRequest is the scorer's view of an incoming service request.
// Category-specific fields are optional; a missing field contributes zero
// points for its component rather than failing validation.
type BookingRequest struct {
	Category          string
	PropertyValue     string // under_500k, 500k_1m, 1m_2m, over_2m
	ShootComplexity   string // simple, standard, complex
	ShootType         string // headshot, team_photo, personal_branding, ...
	EventType         string // conference, award_ceremony, ...
	ContentType       string // promotional, testimonial, social_media, ...
	ScriptStatus      string // ready, in_progress, ...
	ProjectComplexity string // high, medium, low
	Deadline          string // urgent, firm, flexible
	PreferredDate     *time.Time
	IsFlexible        bool
}

// Decision is the advisory routing for a scored booking.
type Decision string

const (
	DecisionAutoApprove   Decision = "auto_approve"
	DecisionManagerReview Decision = "manager_review"
	DecisionAutoDecline   Decision = "auto_decline"
)

// Classify maps a final score onto the approval decision. Boundaries are
// inclusive on the upper side: 80 auto-approves, 60 goes to manager review.
func Classify(score int) Decision {
	switch {
	case score >= 80:
		return DecisionAutoApprove
	case score >= 60:
		return DecisionManagerReview
	default:
		return DecisionAutoDecline
	}
}

// Score assigns a deterministic 0-100 priority to a booking request.
//
// The returned breakdown lists every component applied, zero-valued ones
// included, so approvals stay auditable. Score performs no I/O and is safe
// for concurrent use.
func Score(req BookingRequest, requester domain.Requester) (int, domain.ScoreBreakdown, error) {
	return scoreAt(req, requester, time.Now())
}

func scoreAt(req BookingRequest, requester domain.Requester, now time.Time) (int, domain.ScoreBreakdown, error) {
	var entries []domain.ScoreEntry

	base, err := categoryEntries(req)
	if err != nil {
		return 0, domain.ScoreBreakdown{}, err
	}
	entries = append(entries, base...)

	entries = append(entries, tierEntry(requester.Tier, req.Category))
	entries = append(entries, usageEntry(requester.MonthlyUsed, requester.MonthlyQuota))

	if req.PreferredDate != nil {
		entries = append(entries, advanceNoticeEntry(*req.PreferredDate, now))
	}

	flex := domain.ScoreEntry{
		Category:      "flexibility",
		MaxPoints:     5,
		Justification: "no scheduling flexibility indicated",
	}
	if req.IsFlexible {
		flex.Points = 5
		flex.Justification = "requester marked the booking schedule-flexible"
	}
	entries = append(entries, flex)

	entries = append(entries, performanceEntry(requester.PerformanceScore, req.Category))

	breakdown := domain.ScoreBreakdown{Entries: entries}
	total := breakdown.Sum()
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	breakdown.Total = total

	return total, breakdown, nil
}

// categoryEntries produces the category-specific base components.
func categoryEntries(req BookingRequest) ([]domain.ScoreEntry, error) {
	switch req.Category {
	case CategoryProperty:
		return propertyEntries(req), nil
	case CategoryPersonal:
		return personalEntries(req), nil
	case CategoryCompanyEvent:
		return companyEventEntries(req), nil
	case CategoryMarketing:
		return marketingEntries(req), nil
	case CategorySpecialProject:
		return specialProjectEntries(req), nil
	default:
		return nil, fmt.Errorf("score booking: %w: %q", ErrUnknownCategory, req.Category)
	}
}

func propertyEntries(req BookingRequest) []domain.ScoreEntry {
	value := domain.ScoreEntry{
		Category:      "property_value",
		MaxPoints:     25,
		Justification: "property value not provided",
	}
	switch req.PropertyValue {
	case "under_500k":
		value.Points = 5
		value.Justification = "property valued under $500k"
	case "500k_1m":
		value.Points = 10
		value.Justification = "property valued $500k-$1m"
	case "1m_2m":
		value.Points = 20
		value.Justification = "property valued $1m-$2m"
	case "over_2m":
		value.Points = 25
		value.Justification = "property valued over $2m"
	}

	complexity := domain.ScoreEntry{
		Category:      "shoot_complexity",
		MaxPoints:     10,
		Justification: "standard shoot complexity",
	}
	if req.ShootComplexity == "complex" {
		complexity.Points = 10
		complexity.Justification = "complex shoot requires senior crew"
	}

	return []domain.ScoreEntry{value, complexity}
}

func personalEntries(req BookingRequest) []domain.ScoreEntry {
	value := domain.ScoreEntry{
		Category:  "business_value",
		MaxPoints: 20,
	}
	switch req.ShootType {
	case "headshot":
		value.Points = 20
		value.Justification = "headshots drive direct business value"
	case "team_photo":
		value.Points = 15
		value.Justification = "team photo supports office branding"
	case "personal_branding":
		value.Points = 12
		value.Justification = "personal branding content"
	default:
		value.Points = 8
		value.Justification = "general personal shoot"
	}

	recency := domain.ScoreEntry{
		Category:      "recency",
		Points:        personalRecencyPoints,
		MaxPoints:     personalRecencyPoints,
		Justification: "recency history feed pending; flat allowance applied",
	}

	return []domain.ScoreEntry{value, recency}
}

func companyEventEntries(req BookingRequest) []domain.ScoreEntry {
	base := domain.ScoreEntry{
		Category:      "event_base",
		Points:        90,
		MaxPoints:     90,
		Justification: "organizational events take precedence",
	}

	kind := domain.ScoreEntry{
		Category:      "event_type",
		MaxPoints:     10,
		Justification: "standard company event",
	}
	if req.EventType == "conference" || req.EventType == "award_ceremony" {
		kind.Points = 10
		kind.Justification = "high-visibility event type: " + req.EventType
	}

	return []domain.ScoreEntry{base, kind}
}

func marketingEntries(req BookingRequest) []domain.ScoreEntry {
	content := domain.ScoreEntry{
		Category:  "content_type",
		MaxPoints: 25,
	}
	switch req.ContentType {
	case "promotional":
		content.Points = 25
		content.Justification = "promotional content has broadest reach"
	case "testimonial":
		content.Points = 20
		content.Justification = "testimonial content"
	case "social_media":
		content.Points = 15
		content.Justification = "social media content"
	default:
		content.Points = 12
		content.Justification = "general marketing content"
	}

	script := domain.ScoreEntry{
		Category:      "script_readiness",
		MaxPoints:     10,
		Justification: "no script prepared",
	}
	switch req.ScriptStatus {
	case "ready":
		script.Points = 10
		script.Justification = "script ready, shoot can start immediately"
	case "in_progress":
		script.Points = 5
		script.Justification = "script in progress"
	}

	return []domain.ScoreEntry{content, script}
}

func specialProjectEntries(req BookingRequest) []domain.ScoreEntry {
	base := domain.ScoreEntry{
		Category:      "project_base",
		Points:        40,
		MaxPoints:     40,
		Justification: "special project baseline",
	}

	complexity := domain.ScoreEntry{
		Category:      "project_complexity",
		MaxPoints:     20,
		Justification: "low complexity project",
	}
	switch req.ProjectComplexity {
	case "high":
		complexity.Points = 20
		complexity.Justification = "high complexity project"
	case "medium":
		complexity.Points = 10
		complexity.Justification = "medium complexity project"
	}

	deadline := domain.ScoreEntry{
		Category:      "deadline",
		MaxPoints:     30,
		Justification: "flexible deadline",
	}
	switch req.Deadline {
	case "urgent":
		deadline.Points = 30
		deadline.Justification = "urgent deadline"
	case "firm":
		deadline.Points = 15
		deadline.Justification = "firm deadline"
	}

	return []domain.ScoreEntry{base, complexity, deadline}
}

func tierEntry(tier domain.Tier, category string) domain.ScoreEntry {
	points := 0
	switch tier {
	case domain.TierStandard:
		points = 5
	case domain.TierPremium:
		points = 10
	case domain.TierElite:
		points = 15
	}

	entry := domain.ScoreEntry{
		Category:      "requester_tier",
		Points:        points,
		MaxPoints:     15,
		Justification: fmt.Sprintf("%s tier standing", tier),
	}

	// Organizational events are tier-agnostic, so tier weight is halved.
	if category == CategoryCompanyEvent {
		entry.Points = int(math.Round(float64(points) / 2))
		entry.MaxPoints = 8
		entry.Justification = fmt.Sprintf("%s tier standing (halved for company events)", tier)
	}

	return entry
}

func usageEntry(used, quota int) domain.ScoreEntry {
	// A zero quota counts as fully used rather than dividing by zero.
	ratio := 1.0
	if quota > 0 {
		ratio = float64(used) / float64(quota)
	}

	entry := domain.ScoreEntry{
		Category:  "monthly_usage",
		MaxPoints: 15,
	}
	switch {
	case ratio == 0:
		entry.Points = 15
		entry.Justification = "no bookings used this month"
	case ratio <= 0.25:
		entry.Points = 12
		entry.Justification = "quota usage at or below 25%"
	case ratio <= 0.5:
		entry.Points = 8
		entry.Justification = "quota usage at or below 50%"
	case ratio <= 0.75:
		entry.Points = 4
		entry.Justification = "quota usage at or below 75%"
	default:
		entry.Points = 0
		entry.Justification = "monthly quota nearly or fully used"
	}

	return entry
}

func advanceNoticeEntry(preferred, now time.Time) domain.ScoreEntry {
	days := int(math.Ceil(preferred.Sub(now).Hours() / 24))

	entry := domain.ScoreEntry{
		Category:      "advance_notice",
		MaxPoints:     10,
		Justification: "less than a day of notice",
	}
	switch {
	case days >= 7:
		entry.Points = 10
		entry.Justification = fmt.Sprintf("%d days of advance notice", days)
	case days >= 3:
		entry.Points = 6
		entry.Justification = fmt.Sprintf("%d days of advance notice", days)
	case days >= 1:
		entry.Points = 3
		entry.Justification = fmt.Sprintf("%d days of advance notice", days)
	}

	return entry
}

func performanceEntry(performance int, category string) domain.ScoreEntry {
	adj := math.Round(float64(performance-75) / 5)
	if adj > 10 {
		adj = 10
	}
	if adj < -10 {
		adj = -10
	}

	entry := domain.ScoreEntry{
		Category:      "performance",
		MaxPoints:     10,
		Justification: fmt.Sprintf("performance score %d against baseline 75", performance),
	}

	// Performance carries less weight for company events.
	if category == CategoryCompanyEvent {
		adj = math.Round(adj * 0.3)
		entry.MaxPoints = 3
		entry.Justification = fmt.Sprintf("performance score %d, reduced weight for company events", performance)
	}

	entry.Points = int(adj)
	return entry
}
