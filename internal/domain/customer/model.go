package customer

import (
	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

// Address is the postal address of a customer
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	ZipCode     string `json:"zip_code"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// Customer is a natural person banking with us. Username links the customer
// to the identity carried in bearer tokens.
type Customer struct {
	ID             string                `json:"id"`
	Username       string                `json:"username"`
	LastName       string                `json:"last_name"`
	FirstName      string                `json:"first_name"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone"`
	Gender         types.Gender          `json:"gender"`
	MaritalStatus  types.MaritalStatus   `json:"marital_status"`
	TierLevel      int                   `json:"tier_level"`
	Interests      []types.Interest      `json:"interests"`
	ContactOptions []types.ContactOption `json:"contact_options"`
	Address        Address               `json:"address"`

	types.BaseModel
}

// FilterValue exposes customer attributes to the in-memory filter backend
func (c *Customer) FilterValue(path string) (any, bool) {
	switch path {
	case "username":
		return c.Username, true
	case "last_name":
		return c.LastName, true
	case "first_name":
		return c.FirstName, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "gender":
		return string(c.Gender), true
	case "marital_status":
		return string(c.MaritalStatus), true
	case "tier_level":
		return c.TierLevel, true
	case "interests":
		return types.EnumStrings(c.Interests), true
	case "contact_options":
		return types.EnumStrings(c.ContactOptions), true
	case "address.street":
		return c.Address.Street, true
	case "address.zip_code":
		return c.Address.ZipCode, true
	case "address.city":
		return c.Address.City, true
	case "address.country":
		return c.Address.Country, true
	}
	return nil, false
}

// Validate checks the enumerated attributes strictly and drops duplicate tags
func (c *Customer) Validate() error {
	if err := c.Gender.Validate(); err != nil {
		return err
	}
	if err := c.MaritalStatus.Validate(); err != nil {
		return err
	}
	for _, i := range c.Interests {
		if err := i.Validate(); err != nil {
			return err
		}
	}
	for _, o := range c.ContactOptions {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	c.Interests = lo.Uniq(c.Interests)
	c.ContactOptions = lo.Uniq(c.ContactOptions)
	return nil
}

// FilterSchema lists the query keys customers can be listed by
var FilterSchema = filter.NewSchema("customer",
	filter.Field{Key: "username", Kind: filter.KindStringExact},
	filter.Field{Key: "lastName", Kind: filter.KindStringContains, Path: "last_name"},
	filter.Field{Key: "firstName", Kind: filter.KindStringContains, Path: "first_name"},
	filter.Field{Key: "email", Kind: filter.KindStringContains},
	filter.Field{Key: "phone", Kind: filter.KindStringContains},
	filter.Field{Key: "gender", Kind: filter.KindEnumExact, Enum: filter.EnumOf(types.GenderValues())},
	filter.Field{Key: "maritalStatus", Kind: filter.KindEnumExact, Path: "marital_status", Enum: filter.EnumOf(types.MaritalStatusValues())},
	filter.Field{Key: "interest", Kind: filter.KindEnumExact, Path: "interests", Enum: filter.EnumOf(types.InterestValues())},
	filter.Field{Key: "tierLevel", Kind: filter.KindNumberExact, Path: "tier_level"},
	filter.Field{Key: "minTierLevel", Kind: filter.KindNumberMin, Path: "tier_level"},
	filter.Field{Key: "maxTierLevel", Kind: filter.KindNumberMax, Path: "tier_level"},
	filter.Field{Key: "contact", Kind: filter.KindTagSet, Path: "contact_options", Enum: filter.EnumOf(types.ContactOptionValues())},
	filter.Field{Key: "street", Kind: filter.KindNestedPath, Path: "address.street"},
	filter.Field{Key: "zipCode", Kind: filter.KindNestedPath, Path: "address.zip_code"},
	filter.Field{Key: "city", Kind: filter.KindNestedPath, Path: "address.city"},
	filter.Field{Key: "country", Kind: filter.KindNestedPath, Path: "address.country"},
)
