package types

import (
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/samber/lo"
)

// Gender of a customer
type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderDiverse Gender = "DIVERSE"
)

func GenderValues() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderDiverse}
}

func (g Gender) String() string {
	return string(g)
}

func (g Gender) Validate() error {
	if !lo.Contains(GenderValues(), g) {
		return ierr.NewError("invalid gender").
			WithHint("Please provide a valid gender").
			WithReportableDetails(map[string]any{
				"allowed": GenderValues(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MaritalStatus of a customer
type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "SINGLE"
	MaritalStatusMarried  MaritalStatus = "MARRIED"
	MaritalStatusDivorced MaritalStatus = "DIVORCED"
	MaritalStatusWidowed  MaritalStatus = "WIDOWED"
)

func MaritalStatusValues() []MaritalStatus {
	return []MaritalStatus{MaritalStatusSingle, MaritalStatusMarried, MaritalStatusDivorced, MaritalStatusWidowed}
}

func (m MaritalStatus) Validate() error {
	if !lo.Contains(MaritalStatusValues(), m) {
		return ierr.NewError("invalid marital status").
			WithHint("Please provide a valid marital status").
			WithReportableDetails(map[string]any{
				"allowed": MaritalStatusValues(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ContactOption is a channel a customer agreed to be contacted through
type ContactOption string

const (
	ContactOptionEmail  ContactOption = "EMAIL"
	ContactOptionPhone  ContactOption = "PHONE"
	ContactOptionLetter ContactOption = "LETTER"
	ContactOptionSMS    ContactOption = "SMS"
)

func ContactOptionValues() []ContactOption {
	return []ContactOption{ContactOptionEmail, ContactOptionPhone, ContactOptionLetter, ContactOptionSMS}
}

func (c ContactOption) Validate() error {
	if !lo.Contains(ContactOptionValues(), c) {
		return ierr.NewError("invalid contact option").
			WithHint("Please provide a valid contact option").
			WithReportableDetails(map[string]any{
				"allowed": ContactOptionValues(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Interest is a product area a customer is interested in
type Interest string

const (
	InterestInvestments Interest = "INVESTMENTS"
	InterestSavings     Interest = "SAVINGS"
	InterestCredits     Interest = "CREDITS"
	InterestInsurance   Interest = "INSURANCE"
)

func InterestValues() []Interest {
	return []Interest{InterestInvestments, InterestSavings, InterestCredits, InterestInsurance}
}

func (i Interest) Validate() error {
	if !lo.Contains(InterestValues(), i) {
		return ierr.NewError("invalid interest").
			WithHint("Please provide a valid interest").
			Mark(ierr.ErrValidation)
	}
	return nil
}
