package models

import "gorm.io/gorm"

// DealStatus tracks the outcome axis of a deal lifecycle
type DealStatus string

const (
	StatusNew        DealStatus = "new"
	StatusInProgress DealStatus = "in_progress"
	StatusWon        DealStatus = "won"
	StatusLost       DealStatus = "lost"
)

// IsValid reports whether the status is one of the known values
func (s DealStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusWon, StatusLost:
		return true
	}
	return false
}

// IsTerminal reports whether the status closes the deal
func (s DealStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// DealStage tracks the sales-process axis of a deal lifecycle
type DealStage string

const (
	StageQualification DealStage = "qualification"
	StageProposal      DealStage = "proposal"
	StageNegotiation   DealStage = "negotiation"
	StageClosed        DealStage = "closed"
)

// StageOrder is the fixed pipeline ordering used for backward-move checks
// and funnel conversion.
var StageOrder = []DealStage{
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosed,
}

// IsValid reports whether the stage is one of the known values
func (s DealStage) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the stage's position in the pipeline, or -1 for unknown values
func (s DealStage) Index() int {
	for i, stage := range StageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Currency is the ISO currency code of a deal amount
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCNY Currency = "CNY"
)

// IsValid reports whether the currency is supported
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY, CurrencyCNY:
		return true
	}
	return false
}

// StatusChangeActivity derives the audit record for a status transition.
// Transitions into a terminal status produce a system record with a
// closing message; everything else is a plain status_change.
func StatusChangeActivity(old, new DealStatus) (ActivityType, JSONMap) {
	payload := JSONMap{
		"old_status": string(old),
		"new_status": string(new),
	}
	if new.IsTerminal() {
		payload["message"] = "Deal closed"
		return ActivitySystem, payload
	}
	return ActivityStatusChange, payload
}

// StageChangeActivity derives the audit record for a stage transition.
// Moving into the closed stage produces a system record.
func StageChangeActivity(old, new DealStage) (ActivityType, JSONMap) {
	payload := JSONMap{
		"old_stage": string(old),
		"new_stage": string(new),
	}
	if new == StageClosed {
		payload["message"] = "Stage closed"
		return ActivitySystem, payload
	}
	return ActivityStageChange, payload
}

// Deal belongs to one organization, one contact and one owning user.
// Status and stage are independent lifecycle axes.
type Deal struct {
	gorm.Model
	OrganizationID uint       `gorm:"not null;index" json:"organization_id"`
	ContactID      uint       `gorm:"not null;index" json:"contact_id"`
	OwnerID        uint       `gorm:"not null;index" json:"owner_id"`
	Title          string     `gorm:"size:200;not null" json:"title"`
	Amount         float64    `gorm:"not null" json:"amount"`
	Currency       Currency   `gorm:"size:3;not null" json:"currency"`
	Status         DealStatus `gorm:"size:20;not null;default:'new'" json:"status"`
	Stage          DealStage  `gorm:"size:20;not null;default:'qualification'" json:"stage"`

	// Relations
	Organization Organization `json:"-"`
	Contact      Contact      `json:"-"`
	Owner        User         `gorm:"foreignKey:OwnerID" json:"-"`
	Tasks        []Task       `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Activities   []Activity   `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}
