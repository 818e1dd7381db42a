package models

import (
	"sort"
	"strings"
	"time"
)

// MembershipType — тип абонемента из фиксированного каталога.
type MembershipType string

const (
	// MembershipMonthly — абонемент на 30 дней.
	MembershipMonthly MembershipType = "MONTHLY"
	// MembershipQuarterly — абонемент на 90 дней.
	MembershipQuarterly MembershipType = "QUARTERLY"
	// MembershipAnnual — абонемент на 365 дней.
	MembershipAnnual MembershipType = "ANNUAL"
)

// MembershipPlan описывает условия одного типа абонемента.
type MembershipPlan struct {
	Type         MembershipType `json:"type"`
	DurationDays int            `json:"duration_days"`
	Price        float64        `json:"price"`
}

// MembershipCatalog — таблица тип -> условия. Передаётся в сервис абонементов
// при создании и после этого не изменяется.
type MembershipCatalog map[MembershipType]MembershipPlan

// DefaultMembershipCatalog возвращает стандартный каталог абонементов клуба.
func DefaultMembershipCatalog() MembershipCatalog {
	return MembershipCatalog{
		MembershipMonthly:   {Type: MembershipMonthly, DurationDays: 30, Price: 99.99},
		MembershipQuarterly: {Type: MembershipQuarterly, DurationDays: 90, Price: 249.99},
		MembershipAnnual:    {Type: MembershipAnnual, DurationDays: 365, Price: 899.99},
	}
}

// Lookup ищет план по строковому типу без учёта регистра.
func (c MembershipCatalog) Lookup(raw string) (MembershipPlan, bool) {
	plan, ok := c[MembershipType(strings.ToUpper(strings.TrimSpace(raw)))]
	return plan, ok
}

// Plans возвращает планы каталога, упорядоченные по длительности.
func (c MembershipCatalog) Plans() []MembershipPlan {
	plans := make([]MembershipPlan, 0, len(c))
	for _, p := range c {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].DurationDays < plans[j].DurationDays
	})
	return plans
}

// Membership — купленный абонемент пользователя.
//
// Действительность абонемента определяется датой окончания, а не полем Active:
// абонемент действителен, пока EndDate не раньше текущей даты.
type Membership struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	Type      MembershipType `db:"type" json:"type"`
	StartDate time.Time      `db:"start_date" json:"start_date"`
	EndDate   time.Time      `db:"end_date" json:"end_date"`
	Price     float64        `db:"price" json:"price"`
	Active    bool           `db:"active" json:"active"`
}

// IsValidOn сообщает, действителен ли абонемент на дату day.
func (m *Membership) IsValidOn(day time.Time) bool {
	return !DateOf(m.EndDate).Before(DateOf(day))
}

// DateOf отбрасывает время суток, оставляя календарную дату в UTC.
func DateOf(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
