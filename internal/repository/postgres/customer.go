package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/dsl"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
	"github.com/tallybank/tallybank/internal/types"
)

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

var customerColumns = dsl.MapResolver("customer", map[string]dsl.FieldInfo{
	"username":         {ColumnName: "username"},
	"last_name":        {ColumnName: "last_name"},
	"first_name":       {ColumnName: "first_name"},
	"email":            {ColumnName: "email"},
	"phone":            {ColumnName: "phone"},
	"gender":           {ColumnName: "gender"},
	"marital_status":   {ColumnName: "marital_status"},
	"tier_level":       {ColumnName: "tier_level"},
	"interests":        {ColumnName: "interests", Array: true},
	"contact_options":  {ColumnName: "contact_options", Array: true},
	"address.street":   {ColumnName: "address_street"},
	"address.zip_code": {ColumnName: "address_zip_code"},
	"address.city":     {ColumnName: "address_city"},
	"address.country":  {ColumnName: "address_country"},
	"created_at":       {ColumnName: "created_at"},
	"updated_at":       {ColumnName: "updated_at"},
})

type customerRow struct {
	ID                 string         `db:"id"`
	Username           string         `db:"username"`
	LastName           string         `db:"last_name"`
	FirstName          string         `db:"first_name"`
	Email              string         `db:"email"`
	Phone              string         `db:"phone"`
	Gender             string         `db:"gender"`
	MaritalStatus      string         `db:"marital_status"`
	TierLevel          int            `db:"tier_level"`
	Interests          pq.StringArray `db:"interests"`
	ContactOptions     pq.StringArray `db:"contact_options"`
	AddressStreet      string         `db:"address_street"`
	AddressHouseNumber string         `db:"address_house_number"`
	AddressZipCode     string         `db:"address_zip_code"`
	AddressCity        string         `db:"address_city"`
	AddressCountry     string         `db:"address_country"`
	types.BaseModel
}

func toCustomerRow(c *customer.Customer) *customerRow {
	return &customerRow{
		ID:                 c.ID,
		Username:           c.Username,
		LastName:           c.LastName,
		FirstName:          c.FirstName,
		Email:              c.Email,
		Phone:              c.Phone,
		Gender:             string(c.Gender),
		MaritalStatus:      string(c.MaritalStatus),
		TierLevel:          c.TierLevel,
		Interests:          types.EnumStrings(c.Interests),
		ContactOptions:     types.EnumStrings(c.ContactOptions),
		AddressStreet:      c.Address.Street,
		AddressHouseNumber: c.Address.HouseNumber,
		AddressZipCode:     c.Address.ZipCode,
		AddressCity:        c.Address.City,
		AddressCountry:     c.Address.Country,
		BaseModel:          c.BaseModel,
	}
}

func (r *customerRow) toDomain() *customer.Customer {
	return &customer.Customer{
		ID:             r.ID,
		Username:       r.Username,
		LastName:       r.LastName,
		FirstName:      r.FirstName,
		Email:          r.Email,
		Phone:          r.Phone,
		Gender:         types.Gender(r.Gender),
		MaritalStatus:  types.MaritalStatus(r.MaritalStatus),
		TierLevel:      r.TierLevel,
		Interests:      lo.Map(r.Interests, func(s string, _ int) types.Interest { return types.Interest(s) }),
		ContactOptions: lo.Map(r.ContactOptions, func(s string, _ int) types.ContactOption { return types.ContactOption(s) }),
		Address: customer.Address{
			Street:      r.AddressStreet,
			HouseNumber: r.AddressHouseNumber,
			ZipCode:     r.AddressZipCode,
			City:        r.AddressCity,
			Country:     r.AddressCountry,
		},
		BaseModel: r.BaseModel,
	}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			id, username, last_name, first_name, email, phone, gender, marital_status,
			tier_level, interests, contact_options, address_street, address_house_number,
			address_zip_code, address_city, address_country,
			version, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :username, :last_name, :first_name, :email, :phone, :gender, :marital_status,
			:tier_level, :interests, :contact_options, :address_street, :address_house_number,
			:address_zip_code, :address_city, :address_country,
			:version, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating customer", "customer_id", c.ID, "username", c.Username)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, toCustomerRow(c)); err != nil {
		return dbError(err, "failed to create customer")
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var row customerRow
	if err := getOne(ctx, r.db.GetQuerier(ctx), &row, "customer", id,
		"SELECT * FROM customers WHERE id = $1", id); err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers SET
			last_name = :last_name,
			first_name = :first_name,
			email = :email,
			phone = :phone,
			gender = :gender,
			marital_status = :marital_status,
			tier_level = :tier_level,
			interests = :interests,
			contact_options = :contact_options,
			address_street = :address_street,
			address_house_number = :address_house_number,
			address_zip_code = :address_zip_code,
			address_city = :address_city,
			address_country = :address_country,
			version = version + 1,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND version = :version`

	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUsername(ctx)

	q := r.db.GetQuerier(ctx)
	result, err := q.NamedExecContext(ctx, query, toCustomerRow(c))
	if err != nil {
		return dbError(err, "failed to update customer")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dbError(err, "failed to update customer")
	}
	if n == 0 {
		return checkVersionConflict(ctx, q, "customers", "customer", c.ID, c.Version)
	}
	c.Version++
	return nil
}

func (r *customerRepository) List(ctx context.Context, f *filter.ListFilter) ([]*customer.Customer, error) {
	query, args, err := listQuery("customers", f, customerColumns)
	if err != nil {
		return nil, err
	}

	var rows []customerRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dbError(err, "failed to list customers")
	}
	return lo.Map(rows, func(row customerRow, _ int) *customer.Customer { return row.toDomain() }), nil
}

func (r *customerRepository) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return count(ctx, r.db.GetQuerier(ctx), "customers", f, customerColumns)
}
