package masters

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/opsfloor/mfgops_backend/models"
	"github.com/opsfloor/mfgops_backend/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// reuse the gin binding tags on the input structs
	v.SetTagName("binding")
	return v
}

// recordValidator adapts a typed input struct's checks to the map-shaped
// records the access layer carries. The incoming record is remarshalled into
// the input type, struct-validated, then run through the model's own checks
// (uniqueness, foreign ids, phone/email formats).
func recordValidator[T any](modelValidate func(input *T, ctx context.Context, exceptId int) error) func(ctx context.Context, rec Record, exceptId string) error {
	return func(ctx context.Context, rec Record, exceptId string) error {
		var input T
		if err := utils.Remarshal(map[string]any(rec), &input); err != nil {
			return err
		}
		if err := validate.Struct(&input); err != nil {
			return err
		}
		id, _ := strconv.Atoi(exceptId)
		return modelValidate(&input, ctx, id)
	}
}

// DefaultRegistry wires up the master collections the console works with.
// AllBucketExcludes is per-collection policy: inquiry's "all" tab has always
// left out rejected and pending inquiries, the other pages count everything.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Collection{
			Name:         "company",
			Table:        "companies",
			StatusField:  "is_active",
			SearchFields: []string{"name", "gstin", "city", "email"},
			OptionLabel:  "name",
			Validate: recordValidator(func(input *models.NewCompany, ctx context.Context, exceptId int) error {
				return input.Validate(ctx, exceptId)
			}),
		},
		Collection{
			Name:         "customer",
			Table:        "customers",
			StatusField:  "current_status",
			SearchFields: []string{"customer_id", "name", "city", "phone", "email"},
			OptionValue:  "id",
			OptionLabel:  "name",
			ForeignDisplays: []ForeignDisplay{
				{Field: "company_id", Collection: "company", LabelField: "name"},
			},
			Nested: &NestedBinding{
				Field:      "branches",
				Table:      "customer_branches",
				ForeignKey: "customer_ref_id",
			},
			Validate: recordValidator(func(input *models.NewCustomer, ctx context.Context, exceptId int) error {
				return input.Validate(ctx, exceptId)
			}),
		},
		Collection{
			Name:              "inquiry",
			Table:             "inquiries",
			StatusField:       "current_status",
			SearchFields:      []string{"inquiry_no", "subject", "assigned_to"},
			OptionValue:       "id",
			OptionLabel:       "inquiry_no",
			AllBucketExcludes: []string{string(models.InquiryStatusRejected), string(models.InquiryStatusPending)},
			ForeignDisplays: []ForeignDisplay{
				{Field: "customer_id", Collection: "customer", LabelField: "name"},
			},
			Validate: recordValidator(func(input *models.NewInquiry, ctx context.Context, exceptId int) error {
				return input.Validate(ctx, exceptId)
			}),
		},
		Collection{
			Name:         "quotation",
			Table:        "quotations",
			StatusField:  "current_status",
			SearchFields: []string{"quotation_no", "notes"},
			OptionValue:  "id",
			OptionLabel:  "quotation_no",
			ForeignDisplays: []ForeignDisplay{
				{Field: "customer_id", Collection: "customer", LabelField: "name"},
			},
			Nested: &NestedBinding{
				Field:      "items",
				Table:      "quotation_items",
				ForeignKey: "quotation_ref_id",
			},
			Validate: recordValidator(func(input *models.NewQuotation, ctx context.Context, exceptId int) error {
				return input.Validate(ctx, exceptId)
			}),
		},
		Collection{
			Name:         "purchase",
			Table:        "purchases",
			StatusField:  "current_status",
			SearchFields: []string{"purchase_no", "supplier_name", "item_name"},
			OptionValue:  "id",
			OptionLabel:  "purchase_no",
			Validate: recordValidator(func(input *models.NewPurchase, ctx context.Context, exceptId int) error {
				return input.Validate(ctx, exceptId)
			}),
		},
	)
}
