package dto

import (
	"context"

	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/validator"
)

type AddressRequest struct {
	Street      string `json:"street" validate:"omitempty,max=255"`
	HouseNumber string `json:"house_number" validate:"omitempty,max=20"`
	ZipCode     string `json:"zip_code" validate:"omitempty,max=20"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Country     string `json:"country" validate:"omitempty,max=100"`
}

func (a AddressRequest) toAddress() customer.Address {
	return customer.Address{
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		ZipCode:     a.ZipCode,
		City:        a.City,
		Country:     a.Country,
	}
}

type CreateCustomerRequest struct {
	Username       string         `json:"username" validate:"required,max=100"`
	LastName       string         `json:"last_name" validate:"required,max=100"`
	FirstName      string         `json:"first_name" validate:"omitempty,max=100"`
	Email          string         `json:"email" validate:"omitempty,email"`
	Phone          string         `json:"phone" validate:"omitempty,max=40"`
	Gender         string         `json:"gender" validate:"required"`
	MaritalStatus  string         `json:"marital_status" validate:"required"`
	TierLevel      int            `json:"tier_level" validate:"min=0,max=10"`
	Interests      []string       `json:"interests"`
	ContactOptions []string       `json:"contact_options"`
	Address        AddressRequest `json:"address"`
}

// UpdateCustomerRequest replaces every mutable attribute of a customer.
// The username is fixed at creation.
type UpdateCustomerRequest struct {
	LastName       string         `json:"last_name" validate:"required,max=100"`
	FirstName      string         `json:"first_name" validate:"omitempty,max=100"`
	Email          string         `json:"email" validate:"omitempty,email"`
	Phone          string         `json:"phone" validate:"omitempty,max=40"`
	Gender         string         `json:"gender" validate:"required"`
	MaritalStatus  string         `json:"marital_status" validate:"required"`
	TierLevel      int            `json:"tier_level" validate:"min=0,max=10"`
	Interests      []string       `json:"interests"`
	ContactOptions []string       `json:"contact_options"`
	Address        AddressRequest `json:"address"`
}

type CustomerResponse struct {
	*customer.Customer
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) (*customer.Customer, error) {
	c := &customer.Customer{
		ID:        types.GenerateID(),
		Username:  r.Username,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	err := applyCustomerAttributes(c, customerAttributes{
		LastName:       r.LastName,
		FirstName:      r.FirstName,
		Email:          r.Email,
		Phone:          r.Phone,
		Gender:         r.Gender,
		MaritalStatus:  r.MaritalStatus,
		TierLevel:      r.TierLevel,
		Interests:      r.Interests,
		ContactOptions: r.ContactOptions,
		Address:        r.Address,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *UpdateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ApplyTo overwrites the mutable attributes of c
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) error {
	return applyCustomerAttributes(c, customerAttributes(*r))
}

type customerAttributes struct {
	LastName       string
	FirstName      string
	Email          string
	Phone          string
	Gender         string
	MaritalStatus  string
	TierLevel      int
	Interests      []string
	ContactOptions []string
	Address        AddressRequest
}

func applyCustomerAttributes(c *customer.Customer, a customerAttributes) error {
	gender, err := parseEnum("gender", a.Gender, types.GenderValues())
	if err != nil {
		return err
	}
	marital, err := parseEnum("marital_status", a.MaritalStatus, types.MaritalStatusValues())
	if err != nil {
		return err
	}
	interests, err := parseEnums("interests", a.Interests, types.InterestValues())
	if err != nil {
		return err
	}
	contacts, err := parseEnums("contact_options", a.ContactOptions, types.ContactOptionValues())
	if err != nil {
		return err
	}

	c.LastName = a.LastName
	c.FirstName = a.FirstName
	c.Email = a.Email
	c.Phone = a.Phone
	c.Gender = gender
	c.MaritalStatus = marital
	c.TierLevel = a.TierLevel
	c.Interests = interests
	c.ContactOptions = contacts
	c.Address = a.Address.toAddress()
	return c.Validate()
}
