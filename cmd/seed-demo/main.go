// seed-demo populates an empty database with a small demo dataset: two
// companies, two customers, an inquiry, a quotation with items and a purchase.
// Safe to rerun: it exits without writing when companies already exist.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/models"
	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/shopspring/decimal"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	var companyCount int64
	if err := db.WithContext(ctx).Model(&models.Company{}).Count(&companyCount).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to count companies: %v\n", err)
		os.Exit(1)
	}
	if companyCount > 0 {
		fmt.Println("companies already present; nothing to seed")
		return
	}

	companies := []models.Company{
		{
			Name:     "Precision Works",
			Gstin:    "27AAACP1234A1Z5",
			Phone:    "+91 9876543210",
			Email:    "office@precisionworks.example",
			City:     "Pune",
			State:    "Maharashtra",
			IsActive: utils.NewTrue(),
		},
		{
			Name:     "Precision Works - Unit 2",
			City:     "Satara",
			State:    "Maharashtra",
			IsActive: utils.NewFalse(),
		},
	}
	for i := range companies {
		if err := db.WithContext(ctx).Create(&companies[i]).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create company %s: %v\n", companies[i].Name, err)
			os.Exit(1)
		}
	}
	company := companies[0]

	customers := []models.Customer{
		{
			CustomerId:    "CUST-001",
			Name:          "Apex Gears",
			CompanyId:     company.ID,
			Phone:         "+91 9822001122",
			Email:         "purchase@apexgears.example",
			City:          "Pune",
			State:         "Maharashtra",
			CurrentStatus: "Active",
			Branches: []models.CustomerBranch{
				{Name: "Apex Gears - Chakan", City: "Chakan", ContactPerson: "R. Kulkarni", Phone: "+91 9822003344"},
			},
		},
		{
			CustomerId:    "CUST-002",
			Name:          "Shakti Forgings",
			CompanyId:     company.ID,
			City:          "Nashik",
			State:         "Maharashtra",
			CurrentStatus: "Inactive",
		},
	}
	for i := range customers {
		if err := db.WithContext(ctx).Create(&customers[i]).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create customer %s: %v\n", customers[i].CustomerId, err)
			os.Exit(1)
		}
	}

	inquiry := models.Inquiry{
		InquiryNo:     "INQ-0001",
		CustomerId:    customers[0].ID,
		Subject:       "Helical gear set, 200 pcs",
		Source:        "Phone",
		AssignedTo:    "Sales Desk",
		CurrentStatus: models.InquiryStatusNew,
		InquiryDate:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&inquiry).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create inquiry: %v\n", err)
		os.Exit(1)
	}

	// prices come from the demo catalog in human-entered form
	input := models.NewQuotation{
		Items: []models.NewQuotationItem{
			{ItemName: "Helical gear 40T", Quantity: decimal.NewFromInt(200), UnitPrice: mustDecimal("350.00")},
			{ItemName: "Setup charge", Quantity: decimal.NewFromInt(1), UnitPrice: mustDecimal("5,000.00")},
		},
	}
	subTotal, taxAmount, total := input.Totals(decimal.NewFromInt(18))
	quotation := models.Quotation{
		QuotationNo:   "QTN-0001",
		InquiryId:     inquiry.ID,
		CustomerId:    customers[0].ID,
		QuotationDate: time.Now().UTC(),
		CurrentStatus: models.QuotationStatusDraft,
		SubTotal:      subTotal,
		TaxAmount:     taxAmount,
		TotalAmount:   total,
	}
	for _, item := range input.Items {
		quotation.Items = append(quotation.Items, models.QuotationItem{
			ItemName:  item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Quantity.Mul(item.UnitPrice),
		})
	}
	if err := db.WithContext(ctx).Create(&quotation).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create quotation: %v\n", err)
		os.Exit(1)
	}

	purchase := models.Purchase{
		PurchaseNo:    "PUR-0001",
		SupplierName:  "Steel Traders Co",
		ItemName:      "EN8 round bar 50mm",
		Quantity:      decimal.NewFromInt(500),
		TotalAmount:   mustDecimal("42,500.00"),
		CurrentStatus: models.PurchaseStatusOrdered,
		PurchaseDate:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&purchase).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to create purchase: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("seeded demo data: 2 companies, 2 customers, 1 inquiry, 1 quotation, 1 purchase")
}

func mustDecimal(value string) decimal.Decimal {
	d, err := utils.ParseDecimal(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad seed amount %q: %v\n", value, err)
		os.Exit(1)
	}
	return d
}
