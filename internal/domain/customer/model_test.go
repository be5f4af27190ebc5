package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

func TestFilterSchemaAgainstCustomer(t *testing.T) {
	c := &Customer{
		Username:       "jdoe",
		LastName:       "Doe",
		Gender:         types.GenderDiverse,
		MaritalStatus:  types.MaritalStatusSingle,
		TierLevel:      3,
		Interests:      []types.Interest{types.InterestSavings},
		ContactOptions: []types.ContactOption{types.ContactOptionEmail, types.ContactOptionLetter},
		Address:        Address{City: "Köln", ZipCode: "50667", Country: "DE"},
	}

	tests := []struct {
		name   string
		params map[string][]string
		match  bool
	}{
		{"gender", map[string][]string{"gender": {"diverse"}}, true},
		{"unknown gender", map[string][]string{"gender": {"xyz"}}, false},
		{"interest membership", map[string][]string{"interest": {"savings"}}, true},
		{"contact all present", map[string][]string{"contact": {"email", "letter"}}, true},
		{"contact one missing", map[string][]string{"contact": {"email", "phone"}}, false},
		{"zip code", map[string][]string{"zipCode": {"506"}}, true},
		{"tier range", map[string][]string{"minTierLevel": {"2"}, "maxTierLevel": {"3"}}, true},
		{"tier out of range", map[string][]string{"minTierLevel": {"4"}}, false},
		{"bad tier dropped", map[string][]string{"minTierLevel": {"high"}, "lastName": {"do"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := FilterSchema.Compile(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.match, filter.Match(e, c))
		})
	}
}

func TestValidate(t *testing.T) {
	c := &Customer{
		Gender:         types.GenderMale,
		MaritalStatus:  types.MaritalStatusMarried,
		ContactOptions: []types.ContactOption{types.ContactOptionSMS, types.ContactOptionSMS},
	}
	require.NoError(t, c.Validate())
	assert.Len(t, c.ContactOptions, 1)

	c.Gender = "unknown"
	assert.Error(t, c.Validate())
}
